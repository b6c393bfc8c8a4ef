package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/apierr"
	"github.com/fypms/backend/internal/pkg/ctxutil"
	"github.com/fypms/backend/internal/pkg/logger"
)

// EvaluationFormView is a form plus its derived score. Totals are computed
// from the weight table on every read, never stored.
type EvaluationFormView struct {
	*types.EvaluationForm
	TotalMarks float64 `json:"total_marks"`
	MaxTotal   float64 `json:"max_total"`
}

type UpdateEvaluationFormInput struct {
	Ratings           map[string]string `json:"ratings"`
	Comment           *string           `json:"comment"`
	PlagiarismChecked *bool             `json:"plagiarism_checked"`
	Approved          *bool             `json:"approved"`
}

type EvaluationService interface {
	ListForms(ctx context.Context, supervisionID uuid.UUID) ([]*EvaluationFormView, error)
	GetForm(ctx context.Context, supervisionID uuid.UUID, formType string) (*EvaluationFormView, error)
	UpdateForm(ctx context.Context, supervisionID uuid.UUID, formType string, input UpdateEvaluationFormInput) (*EvaluationFormView, error)
}

type evaluationService struct {
	db          *gorm.DB
	log         *logger.Logger
	formRepo    repos.EvaluationFormRepo
	supvRepo    repos.SupervisionRepo
	studentRepo repos.StudentRepo
	supRepo     repos.SupervisorRepo
}

func NewEvaluationService(
	db *gorm.DB,
	log *logger.Logger,
	formRepo repos.EvaluationFormRepo,
	supvRepo repos.SupervisionRepo,
	studentRepo repos.StudentRepo,
	supRepo repos.SupervisorRepo,
) EvaluationService {
	serviceLog := log.With("service", "EvaluationService")
	return &evaluationService{
		db:          db,
		log:         serviceLog,
		formRepo:    formRepo,
		supvRepo:    supvRepo,
		studentRepo: studentRepo,
		supRepo:     supRepo,
	}
}

func viewOf(form *types.EvaluationForm) *EvaluationFormView {
	view := &EvaluationFormView{EvaluationForm: form, TotalMarks: form.TotalMarks()}
	if spec, ok := types.SpecForForm(form.FormType); ok {
		view.MaxTotal = spec.MaxTotal()
	}
	return view
}

// canRead lets anyone attached to the supervision see the forms; students
// read their own marks, they just cannot write them.
func (es *evaluationService) canRead(ctx context.Context, tx *gorm.DB, rd *ctxutil.RequestData, s *types.Supervision) error {
	switch rd.Role {
	case types.RoleStudent:
		caller, err := es.studentRepo.GetByUserID(ctx, tx, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to load student profile: %w", err)
		}
		if s.Group == nil || (s.Group.Student1ID != caller.ID && s.Group.Student2ID != caller.ID) {
			return apierr.Forbidden("not a member of this supervision's group")
		}
	case types.RoleSupervisor:
		caller, err := es.supRepo.GetByUserID(ctx, tx, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to load supervisor profile: %w", err)
		}
		if s.SupervisorID != caller.ID {
			return apierr.Forbidden("supervision belongs to another supervisor")
		}
	case types.RoleCommitteeMember:
	default:
		return apierr.Forbidden("unknown role")
	}
	return nil
}

func (es *evaluationService) loadSupervision(ctx context.Context, tx *gorm.DB, supervisionID uuid.UUID) (*types.Supervision, error) {
	s, err := es.supvRepo.GetByID(ctx, tx, supervisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("supervision")
		}
		return nil, fmt.Errorf("failed to load supervision: %w", err)
	}
	return s, nil
}

func (es *evaluationService) ListForms(ctx context.Context, supervisionID uuid.UUID) ([]*EvaluationFormView, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	s, err := es.loadSupervision(ctx, nil, supervisionID)
	if err != nil {
		return nil, err
	}
	if err := es.canRead(ctx, nil, rd, s); err != nil {
		return nil, err
	}
	forms, err := es.formRepo.ListBySupervisionID(ctx, nil, supervisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation forms: %w", err)
	}
	views := make([]*EvaluationFormView, 0, len(forms))
	for _, form := range forms {
		views = append(views, viewOf(form))
	}
	return views, nil
}

func (es *evaluationService) GetForm(ctx context.Context, supervisionID uuid.UUID, formType string) (*EvaluationFormView, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	if _, ok := types.SpecForForm(formType); !ok {
		return nil, apierr.Validation("unknown form type %q", formType)
	}
	s, err := es.loadSupervision(ctx, nil, supervisionID)
	if err != nil {
		return nil, err
	}
	if err := es.canRead(ctx, nil, rd, s); err != nil {
		return nil, err
	}
	form, err := es.formRepo.GetBySupervisionAndType(ctx, nil, supervisionID, formType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("evaluation form")
		}
		return nil, fmt.Errorf("failed to load evaluation form: %w", err)
	}
	return viewOf(form), nil
}

// UpdateForm records marks. Only the evaluator role the form belongs to may
// write it, only on an accepted supervision, and only with criteria from the
// form's own weight table.
func (es *evaluationService) UpdateForm(ctx context.Context, supervisionID uuid.UUID, formType string, input UpdateEvaluationFormInput) (*EvaluationFormView, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	spec, ok := types.SpecForForm(formType)
	if !ok {
		return nil, apierr.Validation("unknown form type %q", formType)
	}
	if rd.Role != spec.Evaluator {
		return nil, apierr.Forbidden("this form is filled in by the %s", spec.Evaluator)
	}

	var view *EvaluationFormView
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := es.loadSupervision(ctx, tx, supervisionID)
		if err != nil {
			return err
		}
		if s.Status != types.SupervisionAccepted {
			return apierr.Conflict("supervision is %s, evaluation requires an accepted supervision", s.Status)
		}
		if rd.Role == types.RoleSupervisor {
			caller, err := es.supRepo.GetByUserID(ctx, tx, rd.UserID)
			if err != nil {
				return fmt.Errorf("failed to load supervisor profile: %w", err)
			}
			if s.SupervisorID != caller.ID {
				return apierr.Forbidden("supervision belongs to another supervisor")
			}
		}

		form, err := es.formRepo.GetBySupervisionAndType(ctx, tx, supervisionID, formType)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("evaluation form")
			}
			return fmt.Errorf("failed to load evaluation form: %w", err)
		}

		for name, rating := range input.Ratings {
			if !spec.HasCriterion(name) {
				return apierr.Validation("criterion %q does not belong to form %s", name, formType)
			}
			if !types.ValidRating(rating) {
				return apierr.Validation("invalid rating %q for criterion %q", rating, name)
			}
			form.Ratings[name] = rating
		}
		if input.Comment != nil {
			form.Comment = strings.TrimSpace(*input.Comment)
		}
		if input.PlagiarismChecked != nil || input.Approved != nil {
			if formType != types.FormScopeDocument {
				return apierr.Validation("review flags apply only to the scope document form")
			}
			if input.PlagiarismChecked != nil {
				form.PlagiarismChecked = input.PlagiarismChecked
			}
			if input.Approved != nil {
				form.Approved = input.Approved
			}
		}
		form.UpdatedAt = time.Now().UTC()

		if err := es.formRepo.Save(ctx, tx, form); err != nil {
			return fmt.Errorf("failed to save evaluation form: %w", err)
		}
		view = viewOf(form)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
