package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enum (string) ===================== */

const (
	ParticipantStatusPending  = "PENDING"
	ParticipantStatusApproved = "APPROVED"
	ParticipantStatusRejected = "REJECTED"
	ParticipantStatusBanned   = "BANNED"
)

// ValidStatus dipakai untuk validasi update status oleh organizer/admin.
func ValidStatus(s string) bool {
	switch s {
	case ParticipantStatusPending, ParticipantStatusApproved,
		ParticipantStatusRejected, ParticipantStatusBanned:
		return true
	}
	return false
}

/* ===================== Model ===================== */

type ParticipantModel struct {
	ParticipantID      uuid.UUID `gorm:"column:participant_id;type:uuid;primaryKey" json:"participant_id"`
	ParticipantUserID  uuid.UUID `gorm:"column:participant_user_id;type:uuid;not null;index:idx_participants_user_event" json:"participant_user_id"`
	ParticipantEventID uuid.UUID `gorm:"column:participant_event_id;type:uuid;not null;index:idx_participants_user_event" json:"participant_event_id"`

	ParticipantStatus  string `gorm:"column:participant_status;type:varchar(20);not null;default:'PENDING'" json:"participant_status"`
	ParticipantHasPaid bool   `gorm:"column:participant_has_paid;not null;default:false" json:"participant_has_paid"`

	// Back-reference ke invitation asal (nil untuk self-registration).
	ParticipantInviteID *uuid.UUID `gorm:"column:participant_invite_id;type:uuid" json:"participant_invite_id,omitempty"`

	ParticipantCreatedAt time.Time      `gorm:"column:participant_created_at;autoCreateTime" json:"participant_created_at"`
	ParticipantUpdatedAt time.Time      `gorm:"column:participant_updated_at;autoUpdateTime" json:"participant_updated_at"`
	ParticipantDeletedAt gorm.DeletedAt `gorm:"column:participant_deleted_at;index" json:"participant_deleted_at,omitempty"`

	// NOTE:
	// - Invariant "maks. satu participant non-deleted per (user, event)"
	//   dijaga partial unique index ux_participants_user_event_live
	//   (DDL di database.ApplyIndexes; tidak bisa diekspresikan via tag
	//   GORM karena partial). Service tetap check-then-insert dalam
	//   transaksi; index ini penjaga terakhir saat dua request balapan.
}

func (ParticipantModel) TableName() string { return "participants" }

// App-side UUID supaya tidak bergantung ke gen_random_uuid() DB.
func (p *ParticipantModel) BeforeCreate(tx *gorm.DB) error {
	if p.ParticipantID == uuid.Nil {
		p.ParticipantID = uuid.New()
	}
	return nil
}

func (p *ParticipantModel) IsApproved() bool {
	return p.ParticipantStatus == ParticipantStatusApproved
}
