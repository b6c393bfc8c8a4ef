package domain

import (
	"time"

	"github.com/google/uuid"
)

// Group statuses. A Group is a pairing request from Student1 to Student2,
// not a generic team container.
const (
	GroupPending  = "pending"
	GroupAccepted = "accepted"
	GroupRejected = "rejected"
	GroupCanceled = "canceled"
)

func ValidGroupResponse(status string) bool {
	switch status {
	case GroupAccepted, GroupRejected, GroupCanceled:
		return true
	}
	return false
}

type Group struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Student1ID uuid.UUID        `gorm:"type:uuid;not null;index" json:"student_1_id"`
	Student1   *Student         `gorm:"constraint:OnDelete:CASCADE;foreignKey:Student1ID;references:ID" json:"student_1,omitempty"`
	Student2ID uuid.UUID        `gorm:"type:uuid;not null;index" json:"student_2_id"`
	Student2   *Student         `gorm:"constraint:OnDelete:CASCADE;foreignKey:Student2ID;references:ID" json:"student_2,omitempty"`
	CategoryID uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   *ProjectCategory `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Status     string           `gorm:"not null;default:'pending';index;column:status" json:"status"`
	CreatedAt  time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time        `gorm:"not null" json:"updated_at"`
}

func (Group) TableName() string { return "group_request" }

type GroupComment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	Group     *Group    `gorm:"constraint:OnDelete:CASCADE;foreignKey:GroupID;references:ID" json:"-"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Student   *Student  `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Comment   string    `gorm:"type:text;not null;column:comment" json:"comment"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (GroupComment) TableName() string { return "group_comment" }
