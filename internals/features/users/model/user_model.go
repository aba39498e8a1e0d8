package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventku_backend/internals/constants"
)

// UserModel merepresentasikan tabel users.
// Role organizer/participant tidak punya tabel sendiri: keduanya turunan
// dari relasi di events/participants.
type UserModel struct {
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserName         string    `gorm:"column:user_name;size:100;not null" json:"user_name"`
	UserEmail        string    `gorm:"column:user_email;size:255;not null;uniqueIndex:ux_users_email" json:"user_email"`
	UserPassword     string    `gorm:"column:user_password;not null" json:"-"`
	UserProfileImage *string   `gorm:"column:user_profile_image" json:"user_profile_image,omitempty"`
	UserGoogleID     *string   `gorm:"column:user_google_id;size:255" json:"-"`

	UserRole   string `gorm:"column:user_role;type:varchar(20);not null;default:'USER'" json:"user_role"`
	UserStatus string `gorm:"column:user_status;type:varchar(20);not null;default:'ACTIVE'" json:"user_status"`

	UserCreatedAt time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

func (u *UserModel) IsAdmin() bool {
	return u.UserRole == constants.RoleAdmin
}

func (u *UserModel) IsActive() bool {
	return u.UserStatus == constants.UserStatusActive
}
