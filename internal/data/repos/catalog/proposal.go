package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type ProjectProposalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, proposals []*types.ProjectProposal) ([]*types.ProjectProposal, error)
	GetByID(ctx context.Context, tx *gorm.DB, proposalID uuid.UUID) (*types.ProjectProposal, error)
	ListByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.ProjectProposal, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.ProjectProposal, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, proposalID uuid.UUID) error
}

type projectProposalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectProposalRepo(db *gorm.DB, baseLog *logger.Logger) ProjectProposalRepo {
	repoLog := baseLog.With("repo", "ProjectProposalRepo")
	return &projectProposalRepo{db: db, log: repoLog}
}

func (r *projectProposalRepo) Create(ctx context.Context, tx *gorm.DB, proposals []*types.ProjectProposal) ([]*types.ProjectProposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(proposals) == 0 {
		return []*types.ProjectProposal{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *projectProposalRepo) GetByID(ctx context.Context, tx *gorm.DB, proposalID uuid.UUID) (*types.ProjectProposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ProjectProposal
	if err := transaction.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Where("id = ?", proposalID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *projectProposalRepo) ListByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.ProjectProposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProjectProposal
	if len(studentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectProposalRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ProjectProposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProjectProposal
	if err := transaction.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectProposalRepo) DeleteByID(ctx context.Context, tx *gorm.DB, proposalID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", proposalID).
		Delete(&types.ProjectProposal{}).Error; err != nil {
		return err
	}
	return nil
}
