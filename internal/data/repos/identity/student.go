package identity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/logger"
)

// StudentFilter narrows directory listings. Zero values mean "any".
type StudentFilter struct {
	Department string
	Semester   string
	BatchNo    string
}

type StudentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, students []*types.Student) ([]*types.Student, error)
	GetByID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.Student, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Student, error)
	GetByRegistrationNo(ctx context.Context, tx *gorm.DB, registrationNo string) (*types.Student, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.Student, error)
	List(ctx context.Context, tx *gorm.DB, filter StudentFilter) ([]*types.Student, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, fields map[string]interface{}) error
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	repoLog := baseLog.With("repo", "StudentRepo")
	return &studentRepo{db: db, log: repoLog}
}

func (r *studentRepo) Create(ctx context.Context, tx *gorm.DB, students []*types.Student) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(students) == 0 {
		return []*types.Student{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepo) GetByID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Student
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("id = ?", studentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *studentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Student
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *studentRepo) GetByRegistrationNo(ctx context.Context, tx *gorm.DB, registrationNo string) (*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Student
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("registration_no = ?", registrationNo).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *studentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Student
	if len(studentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("id IN ?", studentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentRepo) List(ctx context.Context, tx *gorm.DB, filter StudentFilter) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Preload("User")
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Semester != "" {
		query = query.Where("semester = ?", filter.Semester)
	}
	if filter.BatchNo != "" {
		query = query.Where("batch_no = ?", filter.BatchNo)
	}

	var results []*types.Student
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentRepo) UpdateFields(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Student{}).
		Where("id = ?", studentID).
		Updates(fields).Error; err != nil {
		return err
	}
	return nil
}
