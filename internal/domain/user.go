package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role tags. Every account has exactly one, and it is resolved once at
// login time into the JWT rather than re-probed per request.
const (
	RoleStudent         = "student"
	RoleSupervisor      = "supervisor"
	RoleCommitteeMember = "committee_member"
)

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleSupervisor, RoleCommitteeMember:
		return true
	}
	return false
}

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email       string    `gorm:"column:email;index" json:"email"`
	Password    string    `gorm:"not null;column:password" json:"-"`
	Role        string    `gorm:"not null;column:role;index" json:"role"`
	AvatarFile  string    `gorm:"column:avatar_file" json:"avatar_file,omitempty"`
	AvatarColor string    `gorm:"column:avatar_color" json:"avatar_color,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

type UserToken struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	AccessToken  string    `gorm:"not null;index;column:access_token" json:"-"`
	RefreshToken string    `gorm:"not null;index;column:refresh_token" json:"-"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (UserToken) TableName() string { return "user_token" }
