package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProjectCategory struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"not null;column:name" json:"name"`

	Supervisors []*Supervisor `gorm:"many2many:supervisor_category" json:"supervisors,omitempty"`
}

func (ProjectCategory) TableName() string { return "project_category" }

type Project struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    *ProjectCategory `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	PanelID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"panel_id"`
	Panel       *Panel           `gorm:"constraint:OnDelete:CASCADE;foreignKey:PanelID;references:ID" json:"panel,omitempty"`
	Name        string           `gorm:"not null;column:name" json:"name"`
	Description string           `gorm:"type:text;column:description" json:"description"`
	Language    string           `gorm:"column:language" json:"language"`

	// Newline-separated feature list, kept free-form like the rest of the
	// project description.
	Functionalities string `gorm:"type:text;column:functionalities" json:"functionalities"`
}

func (Project) TableName() string { return "project" }

// ProjectProposal is a student-pitched project idea, outside the
// committee-curated Project catalog.
type ProjectProposal struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Student      *Student  `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Title        string    `gorm:"not null;column:title" json:"title"`
	Description  string    `gorm:"type:text;column:description" json:"description,omitempty"`
	ProposalLink string    `gorm:"column:proposal_link" json:"proposal_link,omitempty"`
	ProposalFile string    `gorm:"column:proposal_file" json:"proposal_file,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (ProjectProposal) TableName() string { return "project_proposal" }
