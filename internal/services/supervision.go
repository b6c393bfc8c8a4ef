package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/apierr"
	"github.com/fypms/backend/internal/pkg/ctxutil"
	"github.com/fypms/backend/internal/pkg/logger"
)

type CreateSupervisionInput struct {
	GroupID      uuid.UUID `json:"group_id"`
	SupervisorID uuid.UUID `json:"supervisor_id"`
	ProjectID    uuid.UUID `json:"project_id"`
}

type SupervisionService interface {
	Create(ctx context.Context, input CreateSupervisionInput) (*types.Supervision, error)
	Respond(ctx context.Context, supervisionID uuid.UUID, status string) (*types.Supervision, error)
	Get(ctx context.Context, supervisionID uuid.UUID) (*types.Supervision, error)
	List(ctx context.Context, status, requested string) ([]*types.Supervision, error)
	AddComment(ctx context.Context, groupID uuid.UUID, text string) (*types.SupervisionComment, error)
	ListComments(ctx context.Context, groupID uuid.UUID) ([]*types.SupervisionComment, error)
	ListSupervisors(ctx context.Context, categoryID *uuid.UUID) ([]*types.Supervisor, error)
	GetSupervisor(ctx context.Context, supervisorID uuid.UUID) (*types.Supervisor, error)
}

type supervisionService struct {
	db          *gorm.DB
	log         *logger.Logger
	supvRepo    repos.SupervisionRepo
	formRepo    repos.EvaluationFormRepo
	commentRepo repos.SupervisionCommentRepo
	groupRepo   repos.GroupRepo
	studentRepo repos.StudentRepo
	supRepo     repos.SupervisorRepo
	projectRepo repos.ProjectRepo
}

func NewSupervisionService(
	db *gorm.DB,
	log *logger.Logger,
	supvRepo repos.SupervisionRepo,
	formRepo repos.EvaluationFormRepo,
	commentRepo repos.SupervisionCommentRepo,
	groupRepo repos.GroupRepo,
	studentRepo repos.StudentRepo,
	supRepo repos.SupervisorRepo,
	projectRepo repos.ProjectRepo,
) SupervisionService {
	serviceLog := log.With("service", "SupervisionService")
	return &supervisionService{
		db:          db,
		log:         serviceLog,
		supvRepo:    supvRepo,
		formRepo:    formRepo,
		commentRepo: commentRepo,
		groupRepo:   groupRepo,
		studentRepo: studentRepo,
		supRepo:     supRepo,
		projectRepo: projectRepo,
	}
}

func activeSupervisionStatus(status string) bool {
	switch status {
	case types.SupervisionPending, types.SupervisionAcceptedByStudent, types.SupervisionAccepted:
		return true
	}
	return false
}

// Create opens a supervision request from an accepted group to a supervisor.
// The full set of evaluation forms is provisioned in the same transaction so
// a supervision can never exist half-equipped.
func (ss *supervisionService) Create(ctx context.Context, input CreateSupervisionInput) (*types.Supervision, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.Role != types.RoleStudent {
		return nil, apierr.Forbidden("only students may request supervision")
	}
	caller, err := ss.studentRepo.GetByUserID(ctx, nil, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("student profile")
		}
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}

	var supervision *types.Supervision
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := ss.groupRepo.GetByID(ctx, tx, input.GroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("group")
			}
			return fmt.Errorf("failed to load group: %w", err)
		}
		if group.Student1ID != caller.ID && group.Student2ID != caller.ID {
			return apierr.Forbidden("not a member of this group")
		}
		if group.Status != types.GroupAccepted {
			return apierr.Conflict("group is %s, supervision requires an accepted group", group.Status)
		}
		if _, err := ss.supRepo.GetByID(ctx, tx, input.SupervisorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("supervisor")
			}
			return fmt.Errorf("failed to load supervisor: %w", err)
		}
		if _, err := ss.projectRepo.GetByID(ctx, tx, input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("project")
			}
			return fmt.Errorf("failed to load project: %w", err)
		}

		existing, err := ss.supvRepo.ListByGroupIDs(ctx, tx, []uuid.UUID{group.ID}, "")
		if err != nil {
			return fmt.Errorf("failed to check existing supervisions: %w", err)
		}
		for _, e := range existing {
			if e.SupervisorID == input.SupervisorID && activeSupervisionStatus(e.Status) {
				return apierr.Conflict("supervision request to this supervisor already exists")
			}
			if e.Status == types.SupervisionAccepted {
				return apierr.Conflict("group already has an accepted supervision")
			}
		}

		supervision = &types.Supervision{
			ID:           uuid.New(),
			GroupID:      group.ID,
			SupervisorID: input.SupervisorID,
			ProjectID:    input.ProjectID,
			CreatedByID:  caller.ID,
			Status:       types.SupervisionPending,
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		}
		if _, err := ss.supvRepo.Create(ctx, tx, []*types.Supervision{supervision}); err != nil {
			return fmt.Errorf("failed to create supervision: %w", err)
		}

		forms := make([]*types.EvaluationForm, 0, len(types.FormTypes))
		for _, formType := range types.FormTypes {
			forms = append(forms, types.NewEvaluationForm(supervision.ID, formType))
		}
		if _, err := ss.formRepo.Create(ctx, tx, forms); err != nil {
			return fmt.Errorf("failed to provision evaluation forms: %w", err)
		}
		supervision.EvaluationForms = forms
		return nil
	})
	if err != nil {
		return nil, err
	}
	return supervision, nil
}

// Respond drives the supervision state machine. The group member who did not
// open the request confirms it (accepted_by_student); the supervisor then
// accepts or rejects; the initiator may cancel while the request is open.
func (ss *supervisionService) Respond(ctx context.Context, supervisionID uuid.UUID, status string) (*types.Supervision, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}

	var supervision *types.Supervision
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := ss.supvRepo.GetByID(ctx, tx, supervisionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("supervision")
			}
			return fmt.Errorf("failed to load supervision: %w", err)
		}

		switch rd.Role {
		case types.RoleStudent:
			caller, err := ss.studentRepo.GetByUserID(ctx, tx, rd.UserID)
			if err != nil {
				return fmt.Errorf("failed to load student profile: %w", err)
			}
			if s.Group == nil || (s.Group.Student1ID != caller.ID && s.Group.Student2ID != caller.ID) {
				return apierr.Forbidden("not a member of this supervision's group")
			}
			switch status {
			case types.SupervisionAcceptedByStudent:
				if caller.ID == s.CreatedByID {
					return apierr.Forbidden("the requesting student cannot confirm their own request")
				}
				if s.Status != types.SupervisionPending {
					return apierr.Conflict("supervision is %s, expected pending", s.Status)
				}
			case types.SupervisionCanceled:
				if !activeSupervisionStatus(s.Status) || s.Status == types.SupervisionAccepted {
					return apierr.Conflict("supervision is %s and can no longer be canceled", s.Status)
				}
			default:
				return apierr.Forbidden("students may only confirm or cancel a supervision request")
			}
		case types.RoleSupervisor:
			caller, err := ss.supRepo.GetByUserID(ctx, tx, rd.UserID)
			if err != nil {
				return fmt.Errorf("failed to load supervisor profile: %w", err)
			}
			if s.SupervisorID != caller.ID {
				return apierr.Forbidden("supervision belongs to another supervisor")
			}
			switch status {
			case types.SupervisionAccepted:
				if s.Status != types.SupervisionAcceptedByStudent {
					return apierr.Conflict("supervision is %s, acceptance requires student confirmation first", s.Status)
				}
			case types.SupervisionRejected:
				if !activeSupervisionStatus(s.Status) || s.Status == types.SupervisionAccepted {
					return apierr.Conflict("supervision is %s and can no longer be rejected", s.Status)
				}
			default:
				return apierr.Forbidden("supervisors may only accept or reject a supervision request")
			}
		default:
			return apierr.Forbidden("committee members do not respond to supervision requests")
		}

		if err := ss.supvRepo.UpdateStatus(ctx, tx, s.ID, status); err != nil {
			return fmt.Errorf("failed to update supervision status: %w", err)
		}
		s.Status = status
		supervision = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return supervision, nil
}

func (ss *supervisionService) Get(ctx context.Context, supervisionID uuid.UUID) (*types.Supervision, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	s, err := ss.supvRepo.GetByID(ctx, nil, supervisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("supervision")
		}
		return nil, fmt.Errorf("failed to load supervision: %w", err)
	}
	if err := ss.authorize(ctx, rd, s); err != nil {
		return nil, err
	}
	forms, err := ss.formRepo.ListBySupervisionID(ctx, nil, s.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation forms: %w", err)
	}
	s.EvaluationForms = forms
	return s, nil
}

func (ss *supervisionService) authorize(ctx context.Context, rd *ctxutil.RequestData, s *types.Supervision) error {
	switch rd.Role {
	case types.RoleStudent:
		caller, err := ss.studentRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to load student profile: %w", err)
		}
		if s.Group == nil || (s.Group.Student1ID != caller.ID && s.Group.Student2ID != caller.ID) {
			return apierr.Forbidden("not a member of this supervision's group")
		}
	case types.RoleSupervisor:
		caller, err := ss.supRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to load supervisor profile: %w", err)
		}
		if s.SupervisorID != caller.ID {
			return apierr.Forbidden("supervision belongs to another supervisor")
		}
	case types.RoleCommitteeMember:
		// Committee members review everything.
	default:
		return apierr.Forbidden("unknown role")
	}
	return nil
}

// List scopes results by role: students see their group's supervisions,
// supervisors their own, committee members all of them. Students can narrow
// further with requested=to (opened by them, requested to a supervisor) or
// requested=from (opened by their partner).
func (ss *supervisionService) List(ctx context.Context, status, requested string) ([]*types.Supervision, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	switch requested {
	case "", "to", "from":
	default:
		return nil, apierr.Validation("requested must be %q or %q", "to", "from")
	}
	switch rd.Role {
	case types.RoleStudent:
		caller, err := ss.studentRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load student profile: %w", err)
		}
		groups, err := ss.groupRepo.ListInvolving(ctx, nil, caller.ID, "")
		if err != nil {
			return nil, fmt.Errorf("failed to list groups: %w", err)
		}
		groupIDs := make([]uuid.UUID, 0, len(groups))
		for _, g := range groups {
			groupIDs = append(groupIDs, g.ID)
		}
		supervisions, err := ss.supvRepo.ListByGroupIDs(ctx, nil, groupIDs, status)
		if err != nil {
			return nil, err
		}
		if requested == "" {
			return supervisions, nil
		}
		filtered := make([]*types.Supervision, 0, len(supervisions))
		for _, s := range supervisions {
			mine := s.CreatedByID == caller.ID
			if (requested == "to" && mine) || (requested == "from" && !mine) {
				filtered = append(filtered, s)
			}
		}
		return filtered, nil
	case types.RoleSupervisor:
		caller, err := ss.supRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load supervisor profile: %w", err)
		}
		return ss.supvRepo.ListBySupervisorID(ctx, nil, caller.ID, status)
	case types.RoleCommitteeMember:
		return ss.supvRepo.List(ctx, nil, status)
	}
	return nil, apierr.Forbidden("unknown role")
}

// AddComment posts to the pre-assignment discussion thread between a group
// and prospective supervisors.
func (ss *supervisionService) AddComment(ctx context.Context, groupID uuid.UUID, text string) (*types.SupervisionComment, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	if strings.TrimSpace(text) == "" {
		return nil, apierr.Validation("comment text is required")
	}

	comment := &types.SupervisionComment{
		ID:        uuid.New(),
		GroupID:   groupID,
		Comment:   strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
	switch rd.Role {
	case types.RoleStudent:
		caller, err := ss.studentRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load student profile: %w", err)
		}
		group, err := ss.groupRepo.GetByID(ctx, nil, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.NotFound("group")
			}
			return nil, fmt.Errorf("failed to load group: %w", err)
		}
		if group.Student1ID != caller.ID && group.Student2ID != caller.ID {
			return nil, apierr.Forbidden("not a member of this group")
		}
		comment.StudentID = &caller.ID
		comment.CommentedBy = types.AuthorStudent
	case types.RoleSupervisor:
		caller, err := ss.supRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load supervisor profile: %w", err)
		}
		comment.SupervisorID = &caller.ID
		comment.CommentedBy = types.AuthorSupervisor
	default:
		return nil, apierr.Forbidden("only students and supervisors take part in this discussion")
	}

	if _, err := ss.commentRepo.Create(ctx, nil, []*types.SupervisionComment{comment}); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (ss *supervisionService) ListComments(ctx context.Context, groupID uuid.UUID) ([]*types.SupervisionComment, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	if rd.Role == types.RoleStudent {
		caller, err := ss.studentRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load student profile: %w", err)
		}
		group, err := ss.groupRepo.GetByID(ctx, nil, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.NotFound("group")
			}
			return nil, fmt.Errorf("failed to load group: %w", err)
		}
		if group.Student1ID != caller.ID && group.Student2ID != caller.ID {
			return nil, apierr.Forbidden("not a member of this group")
		}
	}
	comments, err := ss.commentRepo.ListByGroupID(ctx, nil, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (ss *supervisionService) ListSupervisors(ctx context.Context, categoryID *uuid.UUID) ([]*types.Supervisor, error) {
	supervisors, err := ss.supRepo.List(ctx, nil, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list supervisors: %w", err)
	}
	return supervisors, nil
}

func (ss *supervisionService) GetSupervisor(ctx context.Context, supervisorID uuid.UUID) (*types.Supervisor, error) {
	supervisor, err := ss.supRepo.GetByID(ctx, nil, supervisorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("supervisor")
		}
		return nil, fmt.Errorf("failed to load supervisor: %w", err)
	}
	return supervisor, nil
}
