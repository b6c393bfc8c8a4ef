package supervision

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type SupervisionCommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comments []*types.SupervisionComment) ([]*types.SupervisionComment, error)
	ListByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.SupervisionComment, error)
}

type supervisionCommentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupervisionCommentRepo(db *gorm.DB, baseLog *logger.Logger) SupervisionCommentRepo {
	repoLog := baseLog.With("repo", "SupervisionCommentRepo")
	return &supervisionCommentRepo{db: db, log: repoLog}
}

func (r *supervisionCommentRepo) Create(ctx context.Context, tx *gorm.DB, comments []*types.SupervisionComment) ([]*types.SupervisionComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(comments) == 0 {
		return []*types.SupervisionComment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *supervisionCommentRepo) ListByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.SupervisionComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SupervisionComment
	if err := transaction.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Preload("Supervisor").
		Preload("Supervisor.User").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
