package supervision

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type EvaluationFormRepo interface {
	Create(ctx context.Context, tx *gorm.DB, forms []*types.EvaluationForm) ([]*types.EvaluationForm, error)
	GetByID(ctx context.Context, tx *gorm.DB, formID uuid.UUID) (*types.EvaluationForm, error)
	GetBySupervisionAndType(ctx context.Context, tx *gorm.DB, supervisionID uuid.UUID, formType string) (*types.EvaluationForm, error)
	ListBySupervisionID(ctx context.Context, tx *gorm.DB, supervisionID uuid.UUID) ([]*types.EvaluationForm, error)
	Save(ctx context.Context, tx *gorm.DB, form *types.EvaluationForm) error
}

type evaluationFormRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvaluationFormRepo(db *gorm.DB, baseLog *logger.Logger) EvaluationFormRepo {
	repoLog := baseLog.With("repo", "EvaluationFormRepo")
	return &evaluationFormRepo{db: db, log: repoLog}
}

func (r *evaluationFormRepo) Create(ctx context.Context, tx *gorm.DB, forms []*types.EvaluationForm) ([]*types.EvaluationForm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(forms) == 0 {
		return []*types.EvaluationForm{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *evaluationFormRepo) GetByID(ctx context.Context, tx *gorm.DB, formID uuid.UUID) (*types.EvaluationForm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.EvaluationForm
	if err := transaction.WithContext(ctx).
		Where("id = ?", formID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *evaluationFormRepo) GetBySupervisionAndType(ctx context.Context, tx *gorm.DB, supervisionID uuid.UUID, formType string) (*types.EvaluationForm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.EvaluationForm
	if err := transaction.WithContext(ctx).
		Where("supervision_id = ? AND form_type = ?", supervisionID, formType).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *evaluationFormRepo) ListBySupervisionID(ctx context.Context, tx *gorm.DB, supervisionID uuid.UUID) ([]*types.EvaluationForm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.EvaluationForm
	if err := transaction.WithContext(ctx).
		Where("supervision_id = ?", supervisionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *evaluationFormRepo) Save(ctx context.Context, tx *gorm.DB, form *types.EvaluationForm) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Save(form).Error; err != nil {
		return err
	}
	return nil
}
