package supervision

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type SupervisionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, supervisions []*types.Supervision) ([]*types.Supervision, error)
	GetByID(ctx context.Context, tx *gorm.DB, supervisionID uuid.UUID) (*types.Supervision, error)
	GetByGroupAndSupervisor(ctx context.Context, tx *gorm.DB, groupID, supervisorID uuid.UUID) (*types.Supervision, error)
	ListBySupervisorID(ctx context.Context, tx *gorm.DB, supervisorID uuid.UUID, status string) ([]*types.Supervision, error)
	ListByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID, status string) ([]*types.Supervision, error)
	List(ctx context.Context, tx *gorm.DB, status string) ([]*types.Supervision, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, supervisionID uuid.UUID, status string) error
}

type supervisionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupervisionRepo(db *gorm.DB, baseLog *logger.Logger) SupervisionRepo {
	repoLog := baseLog.With("repo", "SupervisionRepo")
	return &supervisionRepo{db: db, log: repoLog}
}

func (r *supervisionRepo) Create(ctx context.Context, tx *gorm.DB, supervisions []*types.Supervision) ([]*types.Supervision, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(supervisions) == 0 {
		return []*types.Supervision{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&supervisions).Error; err != nil {
		return nil, err
	}
	return supervisions, nil
}

func (r *supervisionRepo) GetByID(ctx context.Context, tx *gorm.DB, supervisionID uuid.UUID) (*types.Supervision, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Supervision
	if err := transaction.WithContext(ctx).
		Preload("Group").
		Preload("Group.Student1").
		Preload("Group.Student1.User").
		Preload("Group.Student2").
		Preload("Group.Student2.User").
		Preload("Supervisor").
		Preload("Supervisor.User").
		Preload("Project").
		Where("id = ?", supervisionID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *supervisionRepo) GetByGroupAndSupervisor(ctx context.Context, tx *gorm.DB, groupID, supervisorID uuid.UUID) (*types.Supervision, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Supervision
	if err := transaction.WithContext(ctx).
		Where("group_id = ? AND supervisor_id = ?", groupID, supervisorID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *supervisionRepo) ListBySupervisorID(ctx context.Context, tx *gorm.DB, supervisorID uuid.UUID, status string) ([]*types.Supervision, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Preload("Group").
		Preload("Group.Student1").
		Preload("Group.Student1.User").
		Preload("Group.Student2").
		Preload("Group.Student2.User").
		Preload("Project").
		Where("supervisor_id = ?", supervisorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var results []*types.Supervision
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supervisionRepo) ListByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID, status string) ([]*types.Supervision, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Supervision
	if len(groupIDs) == 0 {
		return results, nil
	}

	query := transaction.WithContext(ctx).
		Preload("Supervisor").
		Preload("Supervisor.User").
		Preload("Project").
		Where("group_id IN ?", groupIDs)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supervisionRepo) List(ctx context.Context, tx *gorm.DB, status string) ([]*types.Supervision, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Preload("Group").
		Preload("Group.Student1").
		Preload("Group.Student1.User").
		Preload("Group.Student2").
		Preload("Group.Student2.User").
		Preload("Supervisor").
		Preload("Supervisor.User").
		Preload("Project")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var results []*types.Supervision
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supervisionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, supervisionID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Supervision{}).
		Where("id = ?", supervisionID).
		Update("status", status).Error; err != nil {
		return err
	}
	return nil
}
