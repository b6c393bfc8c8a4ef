package domain

import (
	"github.com/google/uuid"
)

// Semesters eligible for capstone work.
const (
	Semester6 = "semester_6"
	Semester7 = "semester_7"
	Semester8 = "semester_8"
)

func ValidSemester(semester string) bool {
	switch semester {
	case Semester6, Semester7, Semester8:
		return true
	}
	return false
}

type Student struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User           *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	RegistrationNo string    `gorm:"uniqueIndex;not null;column:registration_no" json:"registration_no"`
	Department     string    `gorm:"column:department" json:"department"`
	Semester       string    `gorm:"column:semester" json:"semester"`
	BatchNo        string    `gorm:"column:batch_no" json:"batch_no"`
}

func (Student) TableName() string { return "student" }

type Supervisor struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User               *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SupervisorID       string    `gorm:"uniqueIndex;not null;column:supervisor_id" json:"supervisor_id"`
	ResearchInterest   string    `gorm:"column:research_interest" json:"research_interest,omitempty"`
	AcademicBackground string    `gorm:"column:academic_background" json:"academic_background,omitempty"`

	Categories []*ProjectCategory `gorm:"many2many:supervisor_category" json:"categories,omitempty"`
}

func (Supervisor) TableName() string { return "supervisor" }

type Panel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name" json:"name"`
}

func (Panel) TableName() string { return "panel" }

type CommitteeMember struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CommitteeID string    `gorm:"uniqueIndex;not null;column:committee_id" json:"committee_id"`
	PanelID     uuid.UUID `gorm:"type:uuid;not null;index" json:"panel_id"`
	Panel       *Panel    `gorm:"constraint:OnDelete:CASCADE;foreignKey:PanelID;references:ID" json:"panel,omitempty"`
}

func (CommitteeMember) TableName() string { return "committee_member" }
