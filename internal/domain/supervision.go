package domain

import (
	"time"

	"github.com/google/uuid"
)

// Supervision (and Document) statuses. accepted_by_student is the
// intermediate state set by the non-initiating group member before the
// supervisor confirms.
const (
	SupervisionPending           = "pending"
	SupervisionAcceptedByStudent = "accepted_by_student"
	SupervisionAccepted          = "accepted"
	SupervisionRejected          = "rejected"
	SupervisionCanceled          = "canceled"
)

// Supervision records one supervisor's engagement with an accepted student
// group for a specific project. It aggregate-roots the evaluation forms and
// the uploaded deliverables.
type Supervision struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID      uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_supervision_group_supervisor" json:"group_id"`
	Group        *Group      `gorm:"constraint:OnDelete:CASCADE;foreignKey:GroupID;references:ID" json:"group,omitempty"`
	SupervisorID uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_supervision_group_supervisor" json:"supervisor_id"`
	Supervisor   *Supervisor `gorm:"constraint:OnDelete:CASCADE;foreignKey:SupervisorID;references:ID" json:"supervisor,omitempty"`
	ProjectID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"project_id"`
	Project      *Project    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	CreatedByID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy    *Student    `gorm:"constraint:OnDelete:CASCADE;foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`
	Status       string      `gorm:"not null;default:'pending';index;column:status" json:"status"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`

	EvaluationForms []*EvaluationForm `gorm:"foreignKey:SupervisionID" json:"evaluation_forms,omitempty"`
	Documents       []*Document       `gorm:"foreignKey:SupervisionID" json:"documents,omitempty"`
}

func (Supervision) TableName() string { return "supervision" }

// Who authored a discussion entry.
const (
	AuthorStudent    = "student"
	AuthorSupervisor = "supervisor"
)

// SupervisionComment is the pre-assignment discussion thread between a group
// and a supervisor, scoped to the Group.
type SupervisionComment struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"group_id"`
	Group        *Group      `gorm:"constraint:OnDelete:CASCADE;foreignKey:GroupID;references:ID" json:"-"`
	StudentID    *uuid.UUID  `gorm:"type:uuid;index" json:"student_id,omitempty"`
	Student      *Student    `gorm:"constraint:OnDelete:SET NULL;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	SupervisorID *uuid.UUID  `gorm:"type:uuid;index" json:"supervisor_id,omitempty"`
	Supervisor   *Supervisor `gorm:"constraint:OnDelete:SET NULL;foreignKey:SupervisorID;references:ID" json:"supervisor,omitempty"`
	Comment      string      `gorm:"type:text;not null;column:comment" json:"comment"`
	CommentedBy  string      `gorm:"not null;default:'student';column:commented_by" json:"commented_by"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
}

func (SupervisionComment) TableName() string { return "supervision_comment" }

// ChatMessage is the running conversation on an active Supervision.
// Listing is poll-based: clients pass the last id they have seen.
type ChatMessage struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SupervisionID uuid.UUID    `gorm:"type:uuid;not null;index" json:"supervision_id"`
	Supervision   *Supervision `gorm:"constraint:OnDelete:CASCADE;foreignKey:SupervisionID;references:ID" json:"-"`
	StudentID     *uuid.UUID   `gorm:"type:uuid;index" json:"student_id,omitempty"`
	Student       *Student     `gorm:"constraint:OnDelete:SET NULL;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	SupervisorID  *uuid.UUID   `gorm:"type:uuid;index" json:"supervisor_id,omitempty"`
	Supervisor    *Supervisor  `gorm:"constraint:OnDelete:SET NULL;foreignKey:SupervisorID;references:ID" json:"supervisor,omitempty"`
	Message       string       `gorm:"type:text;not null;column:message" json:"message"`
	SentBy        string       `gorm:"not null;column:sent_by" json:"sent_by"`
	CreatedAt     time.Time    `gorm:"not null;index" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_message" }
