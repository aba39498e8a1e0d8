package dto

import (
	"time"

	"github.com/google/uuid"

	"eventku_backend/internals/features/events/model"
)

/* =========================================================
   Requests
========================================================= */

type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Image       string    `json:"image" validate:"required,url"`
	Description string    `json:"description" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=ONLINE OFFLINE"`
	Date        time.Time `json:"date" validate:"required"`
	VenueOrLink string    `json:"venue_or_link" validate:"required"`
	Fee         float64   `json:"fee" validate:"gte=0"`
	IsPublic    *bool     `json:"is_public,omitempty"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Image       *string    `json:"image,omitempty" validate:"omitempty,url"`
	Description *string    `json:"description,omitempty"`
	Type        *string    `json:"type,omitempty" validate:"omitempty,oneof=ONLINE OFFLINE"`
	Date        *time.Time `json:"date,omitempty"`
	VenueOrLink *string    `json:"venue_or_link,omitempty"`
	Fee         *float64   `json:"fee,omitempty" validate:"omitempty,gte=0"`
	IsPublic    *bool      `json:"is_public,omitempty"`
}

type HeroSelectRequest struct {
	Status bool `json:"status"`
}

func (r *CreateEventRequest) ToModel(organizerID uuid.UUID) *model.EventModel {
	isPublic := true
	if r.IsPublic != nil {
		isPublic = *r.IsPublic
	}
	return &model.EventModel{
		EventOrganizerID: organizerID,
		EventTitle:       r.Title,
		EventImage:       r.Image,
		EventDescription: r.Description,
		EventType:        r.Type,
		EventDate:        r.Date,
		EventVenueOrLink: r.VenueOrLink,
		EventFee:         r.Fee,
		EventIsPublic:    isPublic,
	}
}

// Apply menimpa field event yang dikirim di request.
func (r *UpdateEventRequest) Apply(m *model.EventModel) {
	if r.Title != nil {
		m.EventTitle = *r.Title
	}
	if r.Image != nil {
		m.EventImage = *r.Image
	}
	if r.Description != nil {
		m.EventDescription = *r.Description
	}
	if r.Type != nil {
		m.EventType = *r.Type
	}
	if r.Date != nil {
		m.EventDate = *r.Date
	}
	if r.VenueOrLink != nil {
		m.EventVenueOrLink = *r.VenueOrLink
	}
	if r.Fee != nil {
		m.EventFee = *r.Fee
	}
	if r.IsPublic != nil {
		m.EventIsPublic = *r.IsPublic
	}
}

/* =========================================================
   Responses
========================================================= */

type EventResponse struct {
	EventID     uuid.UUID `json:"event_id"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	Title       string    `json:"title"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	VenueOrLink string    `json:"venue_or_link"`
	Fee         float64   `json:"fee"`
	IsPublic    bool      `json:"is_public"`
	IsHero      bool      `json:"is_hero"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToEventResponse(m *model.EventModel) EventResponse {
	return EventResponse{
		EventID:     m.EventID,
		OrganizerID: m.EventOrganizerID,
		Title:       m.EventTitle,
		Image:       m.EventImage,
		Description: m.EventDescription,
		Type:        m.EventType,
		Date:        m.EventDate,
		VenueOrLink: m.EventVenueOrLink,
		Fee:         m.EventFee,
		IsPublic:    m.EventIsPublic,
		IsHero:      m.EventIsHero,
		CreatedAt:   m.EventCreatedAt,
	}
}

func ToEventResponseList(models []model.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(models))
	for i := range models {
		out = append(out, ToEventResponse(&models[i]))
	}
	return out
}
