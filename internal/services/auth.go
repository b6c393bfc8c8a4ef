package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/apierr"
	"github.com/fypms/backend/internal/pkg/ctxutil"
	"github.com/fypms/backend/internal/pkg/logger"
)

// JWTClaims carries the single role tag so request handling never probes
// profile tables to figure out who is calling.
type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterStudentInput struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RegistrationNo string `json:"registration_no"`
	Department     string `json:"department"`
	Semester       string `json:"semester"`
	BatchNo        string `json:"batch_no"`
}

type RegisterSupervisorInput struct {
	Username           string      `json:"username"`
	Email              string      `json:"email"`
	Password           string      `json:"password"`
	SupervisorID       string      `json:"supervisor_id"`
	ResearchInterest   string      `json:"research_interest"`
	AcademicBackground string      `json:"academic_background"`
	CategoryIDs        []uuid.UUID `json:"category_ids"`
}

type RegisterCommitteeMemberInput struct {
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	CommitteeID string    `json:"committee_id"`
	PanelID     uuid.UUID `json:"panel_id"`
}

type AuthService interface {
	RegisterStudent(ctx context.Context, input RegisterStudentInput) (*types.Student, error)
	RegisterSupervisor(ctx context.Context, input RegisterSupervisorInput) (*types.Supervisor, error)
	RegisterCommitteeMember(ctx context.Context, input RegisterCommitteeMemberInput) (*types.CommitteeMember, error)
	Login(ctx context.Context, role, username, password string) (string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	studentRepo   repos.StudentRepo
	supRepo       repos.SupervisorRepo
	committeeRepo repos.CommitteeMemberRepo
	categoryRepo  repos.ProjectCategoryRepo
	avatarService AvatarService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	studentRepo repos.StudentRepo,
	supRepo repos.SupervisorRepo,
	committeeRepo repos.CommitteeMemberRepo,
	categoryRepo repos.ProjectCategoryRepo,
	avatarService AvatarService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		studentRepo:   studentRepo,
		supRepo:       supRepo,
		committeeRepo: committeeRepo,
		categoryRepo:  categoryRepo,
		avatarService: avatarService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterStudent(ctx context.Context, input RegisterStudentInput) (*types.Student, error) {
	if err := validateAccountFields(input.Username, input.Password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.RegistrationNo) == "" {
		return nil, apierr.Validation("registration_no is required")
	}
	if input.Semester != "" && !types.ValidSemester(input.Semester) {
		return nil, apierr.Validation("invalid semester %q", input.Semester)
	}

	var student *types.Student
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := as.createUser(ctx, tx, input.Username, input.Email, input.Password, types.RoleStudent)
		if err != nil {
			return err
		}
		student = &types.Student{
			ID:             uuid.New(),
			UserID:         user.ID,
			RegistrationNo: strings.TrimSpace(input.RegistrationNo),
			Department:     strings.TrimSpace(input.Department),
			Semester:       input.Semester,
			BatchNo:        strings.TrimSpace(input.BatchNo),
		}
		if _, err := as.studentRepo.Create(ctx, tx, []*types.Student{student}); err != nil {
			return fmt.Errorf("failed to create student profile: %w", err)
		}
		student.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (as *authService) RegisterSupervisor(ctx context.Context, input RegisterSupervisorInput) (*types.Supervisor, error) {
	if err := validateAccountFields(input.Username, input.Password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.SupervisorID) == "" {
		return nil, apierr.Validation("supervisor_id is required")
	}

	var supervisor *types.Supervisor
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := as.createUser(ctx, tx, input.Username, input.Email, input.Password, types.RoleSupervisor)
		if err != nil {
			return err
		}
		supervisor = &types.Supervisor{
			ID:                 uuid.New(),
			UserID:             user.ID,
			SupervisorID:       strings.TrimSpace(input.SupervisorID),
			ResearchInterest:   strings.TrimSpace(input.ResearchInterest),
			AcademicBackground: strings.TrimSpace(input.AcademicBackground),
		}
		if _, err := as.supRepo.Create(ctx, tx, []*types.Supervisor{supervisor}); err != nil {
			return fmt.Errorf("failed to create supervisor profile: %w", err)
		}
		if len(input.CategoryIDs) > 0 {
			categories, err := as.categoryRepo.GetByIDs(ctx, tx, input.CategoryIDs)
			if err != nil {
				return fmt.Errorf("failed to load categories: %w", err)
			}
			if len(categories) != len(input.CategoryIDs) {
				return apierr.Validation("one or more categories do not exist")
			}
			if err := as.supRepo.ReplaceCategories(ctx, tx, supervisor, categories); err != nil {
				return fmt.Errorf("failed to link supervisor categories: %w", err)
			}
		}
		supervisor.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return supervisor, nil
}

func (as *authService) RegisterCommitteeMember(ctx context.Context, input RegisterCommitteeMemberInput) (*types.CommitteeMember, error) {
	if err := validateAccountFields(input.Username, input.Password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.CommitteeID) == "" {
		return nil, apierr.Validation("committee_id is required")
	}
	if input.PanelID == uuid.Nil {
		return nil, apierr.Validation("panel_id is required")
	}

	var member *types.CommitteeMember
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := as.createUser(ctx, tx, input.Username, input.Email, input.Password, types.RoleCommitteeMember)
		if err != nil {
			return err
		}
		member = &types.CommitteeMember{
			ID:          uuid.New(),
			UserID:      user.ID,
			CommitteeID: strings.TrimSpace(input.CommitteeID),
			PanelID:     input.PanelID,
		}
		if _, err := as.committeeRepo.Create(ctx, tx, []*types.CommitteeMember{member}); err != nil {
			return fmt.Errorf("failed to create committee member profile: %w", err)
		}
		member.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (as *authService) createUser(ctx context.Context, tx *gorm.DB, username, email, password, role string) (*types.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if existing, err := as.userRepo.GetByUsername(ctx, tx, username); err == nil && existing != nil {
		return nil, apierr.Conflict("username %q is already taken", username)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Username: username,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hashed),
		Role:     role,
	}
	if as.avatarService != nil {
		if err := as.avatarService.CreateUserAvatar(ctx, tx, user); err != nil {
			as.log.Warn("failed to generate avatar (continuing)", "error", err)
		}
	}
	if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user against the role-specific endpoint it came in
// on. A role mismatch reports the same generic credential error as a wrong
// password.
func (as *authService) Login(ctx context.Context, role, username, password string) (string, string, error) {
	if !types.ValidRole(role) {
		return "", "", apierr.Validation("invalid role %q", role)
	}
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", apierr.Credential()
		}
		return "", "", fmt.Errorf("failed to load user: %w", err)
	}
	if user.Role != role {
		return "", "", apierr.Credential()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", apierr.Credential()
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteExpired(ctx, tx, time.Now()); err != nil {
			return fmt.Errorf("failed to prune expired tokens: %w", err)
		}
		tok, err := as.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
			return fmt.Errorf("failed to store user token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", "", apierr.Validation("refresh token is required")
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.userTokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.Credential()
			}
			return fmt.Errorf("failed to load refresh token: %w", err)
		}
		if existing.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.DeleteByUserID(ctx, tx, existing.UserID); err != nil {
				return fmt.Errorf("failed to delete expired token: %w", err)
			}
			return apierr.Credential()
		}
		user, err := as.userRepo.GetByID(ctx, tx, existing.UserID)
		if err != nil {
			return fmt.Errorf("failed to load user for refresh: %w", err)
		}
		tok, err := as.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
			return fmt.Errorf("failed to store user token: %w", err)
		}
		if err := as.userTokenRepo.DeleteByAccessToken(ctx, tx, existing.AccessToken); err != nil {
			return fmt.Errorf("failed to remove old token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Credential()
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteByAccessToken(ctx, tx, rd.TokenString); err != nil {
			return fmt.Errorf("failed to delete user token: %w", err)
		}
		return nil
	})
}

func (as *authService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Credential()
	}
	if len(newPassword) < 8 {
		return apierr.Validation("new password must be at least 8 characters")
	}

	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := as.userRepo.GetByID(ctx, tx, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
			return apierr.Credential()
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := as.userRepo.UpdateFields(ctx, tx, user.ID, map[string]interface{}{"password": string(hashed)}); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		// Force re-login everywhere after a password change.
		if err := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("failed to revoke tokens: %w", err)
		}
		return nil
	})
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &JWTClaims{}
	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !parsedToken.Valid {
		return ctx, apierr.Credential()
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Credential()
	}
	if !types.ValidRole(claims.Role) {
		return ctx, apierr.Credential()
	}
	rd := &ctxutil.RequestData{
		UserID:      userID,
		Role:        claims.Role,
		TokenString: tokenString,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func validateAccountFields(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return apierr.Validation("username is required")
	}
	if len(password) < 8 {
		return apierr.Validation("password must be at least 8 characters")
	}
	return nil
}
