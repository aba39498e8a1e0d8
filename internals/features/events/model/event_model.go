package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipe pelaksanaan event.
const (
	EventTypeOnline  = "ONLINE"
	EventTypeOffline = "OFFLINE"
)

// Filter gabungan visibilitas + fee untuk listing.
const (
	EventFilterFreePublic  = "FREE_PUBLIC"
	EventFilterPaidPublic  = "PAID_PUBLIC"
	EventFilterFreePrivate = "FREE_PRIVATE"
	EventFilterPaidPrivate = "PAID_PRIVATE"
)

type EventModel struct {
	EventID          uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventOrganizerID uuid.UUID `gorm:"column:event_organizer_id;type:uuid;not null;index:idx_events_organizer_id" json:"event_organizer_id"`

	EventTitle       string    `gorm:"column:event_title;type:varchar(255);not null" json:"event_title"`
	EventImage       string    `gorm:"column:event_image;not null" json:"event_image"`
	EventDescription string    `gorm:"column:event_description;type:text;not null" json:"event_description"`
	EventType        string    `gorm:"column:event_type;type:varchar(10);not null" json:"event_type"`
	EventDate        time.Time `gorm:"column:event_date;type:timestamptz;not null" json:"event_date"`
	EventVenueOrLink string    `gorm:"column:event_venue_or_link;not null" json:"event_venue_or_link"`

	EventFee      float64 `gorm:"column:event_fee;not null;default:0;check:event_fee >= 0" json:"event_fee"`
	EventIsPublic bool    `gorm:"column:event_is_public;not null;default:true" json:"event_is_public"`

	// Paling banyak satu event ber-flag hero; dijaga lewat transaksi
	// clear-then-set di controller, bukan dua write terpisah.
	EventIsHero bool `gorm:"column:event_is_hero;not null;default:false" json:"event_is_hero"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index" json:"event_deleted_at,omitempty"`
}

func (EventModel) TableName() string { return "events" }

func (e *EventModel) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}

// IsFree: admission gratis (fee 0).
func (e *EventModel) IsFree() bool { return e.EventFee == 0 }
