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

type SendGroupRequestInput struct {
	PartnerID  uuid.UUID `json:"partner_id"`
	CategoryID uuid.UUID `json:"category_id"`
}

type GroupService interface {
	SendRequest(ctx context.Context, input SendGroupRequestInput) (*types.Group, error)
	Respond(ctx context.Context, groupID uuid.UUID, status string) (*types.Group, error)
	UpdateCategory(ctx context.Context, groupID, categoryID uuid.UUID) (*types.Group, error)
	Get(ctx context.Context, groupID uuid.UUID) (*types.Group, error)
	ListMine(ctx context.Context, status string) ([]*types.Group, error)
	AddComment(ctx context.Context, groupID uuid.UUID, text string) (*types.GroupComment, error)
	ListComments(ctx context.Context, groupID uuid.UUID) ([]*types.GroupComment, error)
	ListStudents(ctx context.Context, filter repos.StudentFilter, forRequest bool) ([]*types.Student, error)
}

type groupService struct {
	db          *gorm.DB
	log         *logger.Logger
	groupRepo   repos.GroupRepo
	commentRepo repos.GroupCommentRepo
	studentRepo repos.StudentRepo
	catRepo     repos.ProjectCategoryRepo
}

func NewGroupService(
	db *gorm.DB,
	log *logger.Logger,
	groupRepo repos.GroupRepo,
	commentRepo repos.GroupCommentRepo,
	studentRepo repos.StudentRepo,
	catRepo repos.ProjectCategoryRepo,
) GroupService {
	serviceLog := log.With("service", "GroupService")
	return &groupService{
		db:          db,
		log:         serviceLog,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
		studentRepo: studentRepo,
		catRepo:     catRepo,
	}
}

func (gs *groupService) callerStudent(ctx context.Context, tx *gorm.DB) (*types.Student, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.Role != types.RoleStudent {
		return nil, apierr.Forbidden("only students may perform this action")
	}
	student, err := gs.studentRepo.GetByUserID(ctx, tx, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("student profile")
		}
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}
	return student, nil
}

// SendRequest is idempotent on (sender, partner, category): re-sending while
// a matching request is still pending returns the existing one.
func (gs *groupService) SendRequest(ctx context.Context, input SendGroupRequestInput) (*types.Group, error) {
	sender, err := gs.callerStudent(ctx, nil)
	if err != nil {
		return nil, err
	}
	if input.PartnerID == sender.ID {
		return nil, apierr.Validation("cannot send a group request to yourself")
	}
	partner, err := gs.studentRepo.GetByID(ctx, nil, input.PartnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("partner student")
		}
		return nil, fmt.Errorf("failed to load partner: %w", err)
	}
	if _, err := gs.catRepo.GetByID(ctx, nil, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("project category")
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	var group *types.Group
	err = gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range []*types.Student{sender, partner} {
			accepted, err := gs.groupRepo.ListInvolving(ctx, tx, s.ID, types.GroupAccepted)
			if err != nil {
				return fmt.Errorf("failed to check existing groups: %w", err)
			}
			if len(accepted) > 0 {
				return apierr.Conflict("student %s already belongs to an accepted group", s.RegistrationNo)
			}
		}

		existing, err := gs.groupRepo.GetPendingByPair(ctx, tx, sender.ID, partner.ID, input.CategoryID)
		if err == nil {
			group = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check pending requests: %w", err)
		}

		group = &types.Group{
			ID:         uuid.New(),
			Student1ID: sender.ID,
			Student2ID: partner.ID,
			CategoryID: input.CategoryID,
			Status:     types.GroupPending,
			CreatedAt:  time.Now().UTC(),
			UpdatedAt:  time.Now().UTC(),
		}
		if _, err := gs.groupRepo.Create(ctx, tx, []*types.Group{group}); err != nil {
			return fmt.Errorf("failed to create group request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Respond moves a pending request to a terminal status. The recipient may
// accept or reject; either member may cancel. Any terminal response cancels
// every other pending request involving either member, atomically with the
// primary status update.
func (gs *groupService) Respond(ctx context.Context, groupID uuid.UUID, status string) (*types.Group, error) {
	if !types.ValidGroupResponse(status) {
		return nil, apierr.Validation("invalid group response %q", status)
	}
	caller, err := gs.callerStudent(ctx, nil)
	if err != nil {
		return nil, err
	}

	var group *types.Group
	err = gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := gs.groupRepo.GetByID(ctx, tx, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("group request")
			}
			return fmt.Errorf("failed to load group request: %w", err)
		}
		if g.Student1ID != caller.ID && g.Student2ID != caller.ID {
			return apierr.Forbidden("not a member of this group request")
		}
		if g.Status != types.GroupPending {
			return apierr.Conflict("group request already %s", g.Status)
		}
		switch status {
		case types.GroupAccepted, types.GroupRejected:
			if g.Student2ID != caller.ID {
				return apierr.Forbidden("only the invited student may %s the request", status)
			}
		case types.GroupCanceled:
			// Either member may withdraw.
		}

		if err := gs.groupRepo.UpdateStatus(ctx, tx, g.ID, status); err != nil {
			return fmt.Errorf("failed to update group status: %w", err)
		}
		g.Status = status

		others, err := gs.groupRepo.ListPendingInvolvingAny(ctx, tx, []uuid.UUID{g.Student1ID, g.Student2ID}, g.ID)
		if err != nil {
			return fmt.Errorf("failed to list competing requests: %w", err)
		}
		ids := make([]uuid.UUID, 0, len(others))
		for _, other := range others {
			ids = append(ids, other.ID)
		}
		if err := gs.groupRepo.UpdateStatusBatch(ctx, tx, ids, types.GroupCanceled); err != nil {
			return fmt.Errorf("failed to cancel competing requests: %w", err)
		}
		gs.log.Info("group request resolved, competing requests canceled",
			"group_id", g.ID, "status", status, "canceled", len(ids))
		group = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateCategory lets the initiator repoint a still-pending request at a
// different project category.
func (gs *groupService) UpdateCategory(ctx context.Context, groupID, categoryID uuid.UUID) (*types.Group, error) {
	caller, err := gs.callerStudent(ctx, nil)
	if err != nil {
		return nil, err
	}
	category, err := gs.catRepo.GetByID(ctx, nil, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("project category")
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	var group *types.Group
	err = gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := gs.groupRepo.GetByID(ctx, tx, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("group request")
			}
			return fmt.Errorf("failed to load group request: %w", err)
		}
		if g.Student1ID != caller.ID {
			return apierr.Forbidden("only the requesting student may change the category")
		}
		if g.Status != types.GroupPending {
			return apierr.Conflict("group request already %s", g.Status)
		}
		if err := gs.groupRepo.UpdateCategory(ctx, tx, g.ID, category.ID); err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		g.CategoryID = category.ID
		g.Category = category
		group = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (gs *groupService) Get(ctx context.Context, groupID uuid.UUID) (*types.Group, error) {
	caller, err := gs.callerStudent(ctx, nil)
	if err != nil {
		return nil, err
	}
	group, err := gs.groupRepo.GetByID(ctx, nil, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("group request")
		}
		return nil, fmt.Errorf("failed to load group request: %w", err)
	}
	if group.Student1ID != caller.ID && group.Student2ID != caller.ID {
		return nil, apierr.Forbidden("not a member of this group request")
	}
	return group, nil
}

func (gs *groupService) ListMine(ctx context.Context, status string) ([]*types.Group, error) {
	caller, err := gs.callerStudent(ctx, nil)
	if err != nil {
		return nil, err
	}
	groups, err := gs.groupRepo.ListInvolving(ctx, nil, caller.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list group requests: %w", err)
	}
	return groups, nil
}

func (gs *groupService) AddComment(ctx context.Context, groupID uuid.UUID, text string) (*types.GroupComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apierr.Validation("comment text is required")
	}
	group, err := gs.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	caller, err := gs.callerStudent(ctx, nil)
	if err != nil {
		return nil, err
	}
	comment := &types.GroupComment{
		ID:        uuid.New(),
		GroupID:   group.ID,
		StudentID: caller.ID,
		Comment:   strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := gs.commentRepo.Create(ctx, nil, []*types.GroupComment{comment}); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (gs *groupService) ListComments(ctx context.Context, groupID uuid.UUID) ([]*types.GroupComment, error) {
	if _, err := gs.Get(ctx, groupID); err != nil {
		return nil, err
	}
	comments, err := gs.commentRepo.ListByGroupID(ctx, nil, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ListStudents is the partner directory. With forRequest set it drops the
// caller and anyone already locked into an accepted group.
func (gs *groupService) ListStudents(ctx context.Context, filter repos.StudentFilter, forRequest bool) ([]*types.Student, error) {
	caller, err := gs.callerStudent(ctx, nil)
	if err != nil {
		return nil, err
	}
	students, err := gs.studentRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	if !forRequest {
		return students, nil
	}

	available := make([]*types.Student, 0, len(students))
	for _, s := range students {
		if s.ID == caller.ID {
			continue
		}
		accepted, err := gs.groupRepo.ListInvolving(ctx, nil, s.ID, types.GroupAccepted)
		if err != nil {
			return nil, fmt.Errorf("failed to check student availability: %w", err)
		}
		if len(accepted) > 0 {
			continue
		}
		available = append(available, s)
	}
	return available, nil
}
