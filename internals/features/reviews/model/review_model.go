package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewModel struct {
	ReviewID      uuid.UUID `gorm:"column:review_id;type:uuid;primaryKey" json:"review_id"`
	ReviewUserID  uuid.UUID `gorm:"column:review_user_id;type:uuid;not null;index:idx_reviews_user_event" json:"review_user_id"`
	ReviewEventID uuid.UUID `gorm:"column:review_event_id;type:uuid;not null;index:idx_reviews_user_event" json:"review_event_id"`

	ReviewRating  int    `gorm:"column:review_rating;not null;check:review_rating BETWEEN 1 AND 5" json:"review_rating"`
	ReviewComment string `gorm:"column:review_comment;type:text" json:"review_comment"`

	ReviewCreatedAt time.Time      `gorm:"column:review_created_at;autoCreateTime" json:"review_created_at"`
	ReviewUpdatedAt time.Time      `gorm:"column:review_updated_at;autoUpdateTime" json:"review_updated_at"`
	ReviewDeletedAt gorm.DeletedAt `gorm:"column:review_deleted_at;index" json:"review_deleted_at,omitempty"`

	// NOTE: satu review hidup per (user, event), partial unique index
	// ux_reviews_user_event_live (DDL di database.ApplyIndexes).
}

func (ReviewModel) TableName() string { return "reviews" }

func (r *ReviewModel) BeforeCreate(tx *gorm.DB) error {
	if r.ReviewID == uuid.Nil {
		r.ReviewID = uuid.New()
	}
	return nil
}
