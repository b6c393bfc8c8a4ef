package groups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type GroupCommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comments []*types.GroupComment) ([]*types.GroupComment, error)
	ListByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.GroupComment, error)
}

type groupCommentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupCommentRepo(db *gorm.DB, baseLog *logger.Logger) GroupCommentRepo {
	repoLog := baseLog.With("repo", "GroupCommentRepo")
	return &groupCommentRepo{db: db, log: repoLog}
}

func (r *groupCommentRepo) Create(ctx context.Context, tx *gorm.DB, comments []*types.GroupComment) ([]*types.GroupComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(comments) == 0 {
		return []*types.GroupComment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *groupCommentRepo) ListByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.GroupComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.GroupComment
	if err := transaction.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
