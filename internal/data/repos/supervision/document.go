package supervision

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, documents []*types.Document) ([]*types.Document, error)
	GetByID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Document, error)
	ListBySupervisionIDs(ctx context.Context, tx *gorm.DB, supervisionIDs []uuid.UUID, statuses []string) ([]*types.Document, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, status string) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, documents []*types.Document) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(documents) == 0 {
		return []*types.Document{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

func (r *documentRepo) GetByID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Document
	if err := transaction.WithContext(ctx).
		Preload("UploadedBy").
		Preload("UploadedBy.User").
		Where("id = ?", documentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *documentRepo) ListBySupervisionIDs(ctx context.Context, tx *gorm.DB, supervisionIDs []uuid.UUID, statuses []string) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Document
	if len(supervisionIDs) == 0 {
		return results, nil
	}

	query := transaction.WithContext(ctx).
		Preload("UploadedBy").
		Preload("UploadedBy.User").
		Where("supervision_id IN ?", supervisionIDs)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	if err := query.Order("uploaded_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Where("id = ?", documentID).
		Update("status", status).Error; err != nil {
		return err
	}
	return nil
}
