package identity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type SupervisorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, supervisors []*types.Supervisor) ([]*types.Supervisor, error)
	GetByID(ctx context.Context, tx *gorm.DB, supervisorID uuid.UUID) (*types.Supervisor, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Supervisor, error)
	GetBySupervisorID(ctx context.Context, tx *gorm.DB, supervisorID string) (*types.Supervisor, error)
	List(ctx context.Context, tx *gorm.DB, categoryID *uuid.UUID) ([]*types.Supervisor, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, supervisorID uuid.UUID, fields map[string]interface{}) error
	ReplaceCategories(ctx context.Context, tx *gorm.DB, supervisor *types.Supervisor, categories []*types.ProjectCategory) error
}

type supervisorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupervisorRepo(db *gorm.DB, baseLog *logger.Logger) SupervisorRepo {
	repoLog := baseLog.With("repo", "SupervisorRepo")
	return &supervisorRepo{db: db, log: repoLog}
}

func (r *supervisorRepo) Create(ctx context.Context, tx *gorm.DB, supervisors []*types.Supervisor) ([]*types.Supervisor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(supervisors) == 0 {
		return []*types.Supervisor{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&supervisors).Error; err != nil {
		return nil, err
	}
	return supervisors, nil
}

func (r *supervisorRepo) GetByID(ctx context.Context, tx *gorm.DB, supervisorID uuid.UUID) (*types.Supervisor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Supervisor
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("Categories").
		Where("id = ?", supervisorID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *supervisorRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Supervisor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Supervisor
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("Categories").
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *supervisorRepo) GetBySupervisorID(ctx context.Context, tx *gorm.DB, supervisorID string) (*types.Supervisor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Supervisor
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("Categories").
		Where("supervisor_id = ?", supervisorID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *supervisorRepo) List(ctx context.Context, tx *gorm.DB, categoryID *uuid.UUID) ([]*types.Supervisor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Preload("User").Preload("Categories")
	if categoryID != nil {
		query = query.
			Joins("JOIN supervisor_category sc ON sc.supervisor_id = supervisor.id").
			Where("sc.project_category_id = ?", *categoryID)
	}

	var results []*types.Supervisor
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supervisorRepo) UpdateFields(ctx context.Context, tx *gorm.DB, supervisorID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Supervisor{}).
		Where("id = ?", supervisorID).
		Updates(fields).Error; err != nil {
		return err
	}
	return nil
}

func (r *supervisorRepo) ReplaceCategories(ctx context.Context, tx *gorm.DB, supervisor *types.Supervisor, categories []*types.ProjectCategory) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(supervisor).
		Association("Categories").
		Replace(categories); err != nil {
		return err
	}
	return nil
}
