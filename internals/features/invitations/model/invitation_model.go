package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enum (string) ===================== */

const (
	InvitationStatusPending  = "PENDING"
	InvitationStatusAccepted = "ACCEPTED"
	InvitationStatusRejected = "REJECTED"
)

// IsTerminal: ACCEPTED/REJECTED tidak boleh ditransisikan lagi.
func IsTerminal(status string) bool {
	return status == InvitationStatusAccepted || status == InvitationStatusRejected
}

/* ===================== Model ===================== */

type InvitationModel struct {
	InvitationID uuid.UUID `gorm:"column:invitation_id;type:uuid;primaryKey" json:"invitation_id"`

	InvitationEventID       uuid.UUID `gorm:"column:invitation_event_id;type:uuid;not null;index:idx_invitations_participant_event" json:"invitation_event_id"`
	InvitationInviterID     uuid.UUID `gorm:"column:invitation_inviter_id;type:uuid;not null;index" json:"invitation_inviter_id"`
	InvitationParticipantID uuid.UUID `gorm:"column:invitation_participant_id;type:uuid;not null;index:idx_invitations_participant_event" json:"invitation_participant_id"`

	InvitationStatus  string `gorm:"column:invitation_status;type:varchar(20);not null;default:'PENDING'" json:"invitation_status"`
	InvitationHasRead bool   `gorm:"column:invitation_has_read;not null;default:false" json:"invitation_has_read"`

	InvitationCreatedAt time.Time      `gorm:"column:invitation_created_at;autoCreateTime" json:"invitation_created_at"`
	InvitationUpdatedAt time.Time      `gorm:"column:invitation_updated_at;autoUpdateTime" json:"invitation_updated_at"`
	InvitationDeletedAt gorm.DeletedAt `gorm:"column:invitation_deleted_at;index" json:"invitation_deleted_at,omitempty"`

	// NOTE:
	// - Maks. satu invitation non-deleted per (participant, event), partial
	//   unique index ux_invitations_participant_event_live (DDL di
	//   database.ApplyIndexes).
}

func (InvitationModel) TableName() string { return "invitations" }

func (i *InvitationModel) BeforeCreate(tx *gorm.DB) error {
	if i.InvitationID == uuid.Nil {
		i.InvitationID = uuid.New()
	}
	return nil
}
