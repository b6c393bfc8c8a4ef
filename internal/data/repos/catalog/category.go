package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type ProjectCategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, categories []*types.ProjectCategory) ([]*types.ProjectCategory, error)
	GetByID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.ProjectCategory, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.ProjectCategory, error)
	GetWithSupervisors(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.ProjectCategory, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID) ([]*types.ProjectCategory, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.ProjectCategory, error)
}

type projectCategoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectCategoryRepo(db *gorm.DB, baseLog *logger.Logger) ProjectCategoryRepo {
	repoLog := baseLog.With("repo", "ProjectCategoryRepo")
	return &projectCategoryRepo{db: db, log: repoLog}
}

func (r *projectCategoryRepo) Create(ctx context.Context, tx *gorm.DB, categories []*types.ProjectCategory) ([]*types.ProjectCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(categories) == 0 {
		return []*types.ProjectCategory{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *projectCategoryRepo) GetByID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.ProjectCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ProjectCategory
	if err := transaction.WithContext(ctx).
		Where("id = ?", categoryID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *projectCategoryRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.ProjectCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ProjectCategory
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *projectCategoryRepo) GetWithSupervisors(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.ProjectCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ProjectCategory
	if err := transaction.WithContext(ctx).
		Preload("Supervisors").
		Preload("Supervisors.User").
		Where("id = ?", categoryID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *projectCategoryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID) ([]*types.ProjectCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProjectCategory
	if len(categoryIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", categoryIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectCategoryRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ProjectCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProjectCategory
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
