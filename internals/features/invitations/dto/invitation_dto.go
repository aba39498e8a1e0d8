package dto

import (
	"time"

	"github.com/google/uuid"

	"eventku_backend/internals/features/invitations/model"
)

type CreateInvitationRequest struct {
	EventID   uuid.UUID `json:"event_id" validate:"required"`
	InviteeID uuid.UUID `json:"invitee_id" validate:"required"`
}

type ResolveInvitationRequest struct {
	Status string `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
}

type InvitationResponse struct {
	InvitationID            uuid.UUID `json:"invitation_id"`
	InvitationEventID       uuid.UUID `json:"invitation_event_id"`
	InvitationInviterID     uuid.UUID `json:"invitation_inviter_id"`
	InvitationParticipantID uuid.UUID `json:"invitation_participant_id"`
	InvitationStatus        string    `json:"invitation_status"`
	InvitationHasRead       bool      `json:"invitation_has_read"`
	InvitationCreatedAt     time.Time `json:"invitation_created_at"`

	// Diisi saat listing (join ke events / users).
	EventTitle  string `json:"event_title,omitempty"`
	InviterName string `json:"inviter_name,omitempty"`
}

func ToInvitationResponse(inv *model.InvitationModel) InvitationResponse {
	return InvitationResponse{
		InvitationID:            inv.InvitationID,
		InvitationEventID:       inv.InvitationEventID,
		InvitationInviterID:     inv.InvitationInviterID,
		InvitationParticipantID: inv.InvitationParticipantID,
		InvitationStatus:        inv.InvitationStatus,
		InvitationHasRead:       inv.InvitationHasRead,
		InvitationCreatedAt:     inv.InvitationCreatedAt,
	}
}
