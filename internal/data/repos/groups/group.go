package groups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type GroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, groupRequests []*types.Group) ([]*types.Group, error)
	GetByID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (*types.Group, error)
	GetPendingByPair(ctx context.Context, tx *gorm.DB, student1ID, student2ID, categoryID uuid.UUID) (*types.Group, error)
	ListInvolving(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, status string) ([]*types.Group, error)
	ListPendingInvolvingAny(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID, excludeID uuid.UUID) ([]*types.Group, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, status string) error
	UpdateStatusBatch(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID, status string) error
	UpdateCategory(ctx context.Context, tx *gorm.DB, groupID, categoryID uuid.UUID) error
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	repoLog := baseLog.With("repo", "GroupRepo")
	return &groupRepo{db: db, log: repoLog}
}

func (r *groupRepo) Create(ctx context.Context, tx *gorm.DB, groupRequests []*types.Group) ([]*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(groupRequests) == 0 {
		return []*types.Group{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&groupRequests).Error; err != nil {
		return nil, err
	}
	return groupRequests, nil
}

func (r *groupRepo) GetByID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Group
	if err := transaction.WithContext(ctx).
		Preload("Student1").
		Preload("Student1.User").
		Preload("Student2").
		Preload("Student2.User").
		Preload("Category").
		Where("id = ?", groupID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *groupRepo) GetPendingByPair(ctx context.Context, tx *gorm.DB, student1ID, student2ID, categoryID uuid.UUID) (*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Group
	if err := transaction.WithContext(ctx).
		Where("student1_id = ? AND student2_id = ? AND category_id = ? AND status = ?",
			student1ID, student2ID, categoryID, types.GroupPending).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *groupRepo) ListInvolving(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, status string) ([]*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Preload("Student1").
		Preload("Student1.User").
		Preload("Student2").
		Preload("Student2.User").
		Preload("Category").
		Where("student1_id = ? OR student2_id = ?", studentID, studentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var results []*types.Group
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *groupRepo) ListPendingInvolvingAny(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID, excludeID uuid.UUID) ([]*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Group
	if len(studentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("(student1_id IN ? OR student2_id IN ?) AND status = ? AND id <> ?",
			studentIDs, studentIDs, types.GroupPending, excludeID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *groupRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Group{}).
		Where("id = ?", groupID).
		Update("status", status).Error; err != nil {
		return err
	}
	return nil
}

func (r *groupRepo) UpdateStatusBatch(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(groupIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Group{}).
		Where("id IN ?", groupIDs).
		Update("status", status).Error; err != nil {
		return err
	}
	return nil
}

func (r *groupRepo) UpdateCategory(ctx context.Context, tx *gorm.DB, groupID, categoryID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Group{}).
		Where("id = ?", groupID).
		Update("category_id", categoryID).Error; err != nil {
		return err
	}
	return nil
}
