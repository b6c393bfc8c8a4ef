package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/apierr"
	"github.com/fypms/backend/internal/pkg/ctxutil"
	"github.com/fypms/backend/internal/pkg/logger"
)

// Profile bundles the account with its role-specific record; exactly one of
// the three profile fields is set.
type Profile struct {
	User            *types.User            `json:"user"`
	Student         *types.Student         `json:"student,omitempty"`
	Supervisor      *types.Supervisor      `json:"supervisor,omitempty"`
	CommitteeMember *types.CommitteeMember `json:"committee_member,omitempty"`
}

type AccountService interface {
	Me(ctx context.Context) (*Profile, error)
	UploadAvatarImage(ctx context.Context, raw []byte) (*types.User, error)
}

type accountService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	studentRepo   repos.StudentRepo
	supRepo       repos.SupervisorRepo
	committeeRepo repos.CommitteeMemberRepo
	avatarService AvatarService
}

func NewAccountService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	studentRepo repos.StudentRepo,
	supRepo repos.SupervisorRepo,
	committeeRepo repos.CommitteeMemberRepo,
	avatarService AvatarService,
) AccountService {
	serviceLog := log.With("service", "AccountService")
	return &accountService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		studentRepo:   studentRepo,
		supRepo:       supRepo,
		committeeRepo: committeeRepo,
		avatarService: avatarService,
	}
}

func (as *accountService) Me(ctx context.Context) (*Profile, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	user, err := as.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("user")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	profile := &Profile{User: user}
	switch rd.Role {
	case types.RoleStudent:
		student, err := as.studentRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load student profile: %w", err)
		}
		profile.Student = student
	case types.RoleSupervisor:
		supervisor, err := as.supRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load supervisor profile: %w", err)
		}
		profile.Supervisor = supervisor
	case types.RoleCommitteeMember:
		member, err := as.committeeRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load committee member profile: %w", err)
		}
		profile.CommitteeMember = member
	}
	return profile, nil
}

func (as *accountService) UploadAvatarImage(ctx context.Context, raw []byte) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	if as.avatarService == nil {
		return nil, apierr.Validation("avatar uploads are not enabled")
	}

	var user *types.User
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := as.userRepo.GetByID(ctx, tx, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if err := as.avatarService.CreateUserAvatarFromImage(ctx, tx, u, raw); err != nil {
			return err
		}
		if err := as.userRepo.UpdateFields(ctx, tx, u.ID, map[string]interface{}{
			"avatar_file":  u.AvatarFile,
			"avatar_color": u.AvatarColor,
		}); err != nil {
			return fmt.Errorf("failed to update avatar fields: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
