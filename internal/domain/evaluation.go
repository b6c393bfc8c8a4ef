package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EvaluationForm is one rubric scorecard on a Supervision. The nine form
// variants share this structure and differ only by the weight table their
// FormType selects; ratings are stored per criterion name. TotalMarks is
// always derived on read and never persisted.
type EvaluationForm struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	SupervisionID uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_eval_supervision_type" json:"supervision_id"`
	Supervision   *Supervision      `gorm:"constraint:OnDelete:CASCADE;foreignKey:SupervisionID;references:ID" json:"-"`
	FormType      string            `gorm:"not null;uniqueIndex:idx_eval_supervision_type;column:form_type" json:"form_type"`
	Ratings       datatypes.JSONMap `gorm:"column:ratings" json:"ratings"`
	Comment       string            `gorm:"type:text;column:comment" json:"comment,omitempty"`

	// Scope-document review outcome; unused by the scored form types.
	PlagiarismChecked *bool `gorm:"column:plagiarism_checked" json:"plagiarism_checked,omitempty"`
	Approved          *bool `gorm:"column:approved" json:"approved,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (EvaluationForm) TableName() string { return "evaluation_form" }

// NewEvaluationForm provisions a form of the given type with every criterion
// at pending.
func NewEvaluationForm(supervisionID uuid.UUID, formType string) *EvaluationForm {
	ratings := datatypes.JSONMap{}
	if spec, ok := SpecForForm(formType); ok {
		for _, c := range spec.Criteria {
			ratings[c.Name] = RatingPending
		}
	}
	return &EvaluationForm{
		ID:            uuid.New(),
		SupervisionID: supervisionID,
		FormType:      formType,
		Ratings:       ratings,
	}
}

// CriterionRatings narrows the stored JSON map to string ratings.
func (ef *EvaluationForm) CriterionRatings() map[string]string {
	ratings := make(map[string]string, len(ef.Ratings))
	for name, value := range ef.Ratings {
		if s, ok := value.(string); ok {
			ratings[name] = s
		}
	}
	return ratings
}

// TotalMarks sums multiplier(rating) × max points over the form's weight
// table. Unknown ratings and criteria missing from the map contribute zero.
func (ef *EvaluationForm) TotalMarks() float64 {
	spec, ok := SpecForForm(ef.FormType)
	if !ok {
		return 0
	}
	return spec.Total(ef.CriterionRatings())
}
