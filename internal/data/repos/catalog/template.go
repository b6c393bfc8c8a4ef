package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

// TemplateFilter narrows template listings. Zero values mean "any".
type TemplateFilter struct {
	TemplateType string
	Semester     string
}

type DocumentTemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, templates []*types.DocumentTemplate) ([]*types.DocumentTemplate, error)
	GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.DocumentTemplate, error)
	List(ctx context.Context, tx *gorm.DB, filter TemplateFilter) ([]*types.DocumentTemplate, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) error
}

type documentTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentTemplateRepo(db *gorm.DB, baseLog *logger.Logger) DocumentTemplateRepo {
	repoLog := baseLog.With("repo", "DocumentTemplateRepo")
	return &documentTemplateRepo{db: db, log: repoLog}
}

func (r *documentTemplateRepo) Create(ctx context.Context, tx *gorm.DB, templates []*types.DocumentTemplate) ([]*types.DocumentTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(templates) == 0 {
		return []*types.DocumentTemplate{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *documentTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.DocumentTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.DocumentTemplate
	if err := transaction.WithContext(ctx).
		Where("id = ?", templateID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *documentTemplateRepo) List(ctx context.Context, tx *gorm.DB, filter TemplateFilter) ([]*types.DocumentTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx)
	if filter.TemplateType != "" {
		query = query.Where("template_type = ?", filter.TemplateType)
	}
	if filter.Semester != "" {
		query = query.Where("semester = ?", filter.Semester)
	}

	var results []*types.DocumentTemplate
	if err := query.Order("uploaded_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentTemplateRepo) DeleteByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", templateID).
		Delete(&types.DocumentTemplate{}).Error; err != nil {
		return err
	}
	return nil
}
