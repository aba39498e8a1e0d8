package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GatewayEventStatusReceived  = "received"
	GatewayEventStatusProcessed = "processed"
	GatewayEventStatusFailed    = "failed"
)

// PaymentGatewayEventModel adalah audit trail setiap delivery callback
// dari gateway, termasuk delivery yang di-ignore (payment tidak ketemu
// atau sudah terminal). Berguna buat debugging reconciliation.
type PaymentGatewayEventModel struct {
	PaymentGatewayEventID        uuid.UUID  `gorm:"column:payment_gateway_event_id;type:uuid;primaryKey" json:"payment_gateway_event_id"`
	PaymentGatewayEventPaymentID *uuid.UUID `gorm:"column:payment_gateway_event_payment_id;type:uuid;index" json:"payment_gateway_event_payment_id,omitempty"`

	PaymentGatewayEventTransactionID string  `gorm:"column:payment_gateway_event_transaction_id;size:64;not null;index" json:"payment_gateway_event_transaction_id"`
	PaymentGatewayEventType          string  `gorm:"column:payment_gateway_event_type;size:32;not null" json:"payment_gateway_event_type"`
	PaymentGatewayEventStatus        string  `gorm:"column:payment_gateway_event_status;size:16;not null;default:'received'" json:"payment_gateway_event_status"`
	PaymentGatewayEventError         *string `gorm:"column:payment_gateway_event_error" json:"payment_gateway_event_error,omitempty"`

	PaymentGatewayEventPayload datatypes.JSONMap `gorm:"column:payment_gateway_event_payload;type:jsonb" json:"payment_gateway_event_payload,omitempty"`

	PaymentGatewayEventProcessedAt *time.Time     `gorm:"column:payment_gateway_event_processed_at" json:"payment_gateway_event_processed_at,omitempty"`
	PaymentGatewayEventCreatedAt   time.Time      `gorm:"column:payment_gateway_event_created_at;autoCreateTime" json:"payment_gateway_event_created_at"`
	PaymentGatewayEventDeletedAt   gorm.DeletedAt `gorm:"column:payment_gateway_event_deleted_at;index" json:"payment_gateway_event_deleted_at,omitempty"`
}

func (PaymentGatewayEventModel) TableName() string { return "payment_gateway_events" }

func (e *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if e.PaymentGatewayEventID == uuid.Nil {
		e.PaymentGatewayEventID = uuid.New()
	}
	return nil
}
