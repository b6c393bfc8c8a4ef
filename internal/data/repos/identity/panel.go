package identity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type PanelRepo interface {
	Create(ctx context.Context, tx *gorm.DB, panels []*types.Panel) ([]*types.Panel, error)
	GetByID(ctx context.Context, tx *gorm.DB, panelID uuid.UUID) (*types.Panel, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Panel, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Panel, error)
}

type panelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPanelRepo(db *gorm.DB, baseLog *logger.Logger) PanelRepo {
	repoLog := baseLog.With("repo", "PanelRepo")
	return &panelRepo{db: db, log: repoLog}
}

func (r *panelRepo) Create(ctx context.Context, tx *gorm.DB, panels []*types.Panel) ([]*types.Panel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(panels) == 0 {
		return []*types.Panel{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&panels).Error; err != nil {
		return nil, err
	}
	return panels, nil
}

func (r *panelRepo) GetByID(ctx context.Context, tx *gorm.DB, panelID uuid.UUID) (*types.Panel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Panel
	if err := transaction.WithContext(ctx).
		Where("id = ?", panelID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *panelRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Panel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Panel
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *panelRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Panel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Panel
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
