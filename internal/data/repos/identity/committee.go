package identity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

type CommitteeMemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, members []*types.CommitteeMember) ([]*types.CommitteeMember, error)
	GetByID(ctx context.Context, tx *gorm.DB, memberID uuid.UUID) (*types.CommitteeMember, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.CommitteeMember, error)
	GetByCommitteeID(ctx context.Context, tx *gorm.DB, committeeID string) (*types.CommitteeMember, error)
	List(ctx context.Context, tx *gorm.DB, panelID *uuid.UUID) ([]*types.CommitteeMember, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, memberID uuid.UUID, fields map[string]interface{}) error
}

type committeeMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommitteeMemberRepo(db *gorm.DB, baseLog *logger.Logger) CommitteeMemberRepo {
	repoLog := baseLog.With("repo", "CommitteeMemberRepo")
	return &committeeMemberRepo{db: db, log: repoLog}
}

func (r *committeeMemberRepo) Create(ctx context.Context, tx *gorm.DB, members []*types.CommitteeMember) ([]*types.CommitteeMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(members) == 0 {
		return []*types.CommitteeMember{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *committeeMemberRepo) GetByID(ctx context.Context, tx *gorm.DB, memberID uuid.UUID) (*types.CommitteeMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CommitteeMember
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("Panel").
		Where("id = ?", memberID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *committeeMemberRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.CommitteeMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CommitteeMember
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("Panel").
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *committeeMemberRepo) GetByCommitteeID(ctx context.Context, tx *gorm.DB, committeeID string) (*types.CommitteeMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CommitteeMember
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("Panel").
		Where("committee_id = ?", committeeID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *committeeMemberRepo) List(ctx context.Context, tx *gorm.DB, panelID *uuid.UUID) ([]*types.CommitteeMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Preload("User").Preload("Panel")
	if panelID != nil {
		query = query.Where("panel_id = ?", *panelID)
	}

	var results []*types.CommitteeMember
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *committeeMemberRepo) UpdateFields(ctx context.Context, tx *gorm.DB, memberID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.CommitteeMember{}).
		Where("id = ?", memberID).
		Updates(fields).Error; err != nil {
		return err
	}
	return nil
}
