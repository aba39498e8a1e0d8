package dto

import (
	"time"

	"github.com/google/uuid"

	"eventku_backend/internals/features/reviews/model"
)

type CreateReviewRequest struct {
	EventID uuid.UUID `json:"event_id" validate:"required"`
	Rating  int       `json:"rating" validate:"required,min=1,max=5"`
	Comment string    `json:"comment" validate:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ReviewID        uuid.UUID `json:"review_id"`
	ReviewUserID    uuid.UUID `json:"review_user_id"`
	ReviewEventID   uuid.UUID `json:"review_event_id"`
	ReviewRating    int       `json:"review_rating"`
	ReviewComment   string    `json:"review_comment"`
	ReviewCreatedAt time.Time `json:"review_created_at"`

	// Diisi saat listing per event.
	UserName string `json:"user_name,omitempty"`
}

func ToReviewResponse(r *model.ReviewModel) ReviewResponse {
	return ReviewResponse{
		ReviewID:        r.ReviewID,
		ReviewUserID:    r.ReviewUserID,
		ReviewEventID:   r.ReviewEventID,
		ReviewRating:    r.ReviewRating,
		ReviewComment:   r.ReviewComment,
		ReviewCreatedAt: r.ReviewCreatedAt,
	}
}
