package dto

import (
	"time"

	"github.com/google/uuid"

	"eventku_backend/internals/features/participants/model"
)

type AdmitParticipantRequest struct {
	EventID uuid.UUID `json:"event_id" validate:"required"`
}

type UpdateParticipantStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ParticipantResponse struct {
	ParticipantID        uuid.UUID  `json:"participant_id"`
	ParticipantUserID    uuid.UUID  `json:"participant_user_id"`
	ParticipantEventID   uuid.UUID  `json:"participant_event_id"`
	ParticipantStatus    string     `json:"participant_status"`
	ParticipantHasPaid   bool       `json:"participant_has_paid"`
	ParticipantInviteID  *uuid.UUID `json:"participant_invite_id,omitempty"`
	ParticipantCreatedAt time.Time  `json:"participant_created_at"`

	// Diisi saat list per event (join ke users).
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

// AdmissionResponse: hasil join event. Kalau requires_payment true,
// frontend redirect ke checkout_url.
type AdmissionResponse struct {
	RequiresPayment bool                 `json:"requires_payment"`
	Participant     *ParticipantResponse `json:"participant,omitempty"`
	CheckoutURL     string               `json:"checkout_url,omitempty"`
	TransactionID   string               `json:"transaction_id,omitempty"`
}

func ToParticipantResponse(p *model.ParticipantModel) ParticipantResponse {
	return ParticipantResponse{
		ParticipantID:        p.ParticipantID,
		ParticipantUserID:    p.ParticipantUserID,
		ParticipantEventID:   p.ParticipantEventID,
		ParticipantStatus:    p.ParticipantStatus,
		ParticipantHasPaid:   p.ParticipantHasPaid,
		ParticipantInviteID:  p.ParticipantInviteID,
		ParticipantCreatedAt: p.ParticipantCreatedAt,
	}
}
