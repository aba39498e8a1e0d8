package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusSuccess  = "SUCCESS"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusCanceled = "CANCELED"
)

// Outcome dari gateway (push callback maupun hasil verify).
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFail    = "FAIL"
	OutcomeCancel  = "CANCEL"
)

/* ===================== Model ===================== */

type PaymentModel struct {
	PaymentID      uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentUserID  uuid.UUID `gorm:"column:payment_user_id;type:uuid;not null;index:idx_payments_user_event" json:"payment_user_id"`
	PaymentEventID uuid.UUID `gorm:"column:payment_event_id;type:uuid;not null;index:idx_payments_user_event" json:"payment_event_id"`

	PaymentAmount int `gorm:"column:payment_amount;not null;check:payment_amount >= 0" json:"payment_amount"`

	// Order ID di gateway; kunci idempotensi reconciliation.
	PaymentTransactionID string `gorm:"column:payment_transaction_id;size:64;not null;uniqueIndex:ux_payments_transaction_id" json:"payment_transaction_id"`

	PaymentStatus      string  `gorm:"column:payment_status;type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	PaymentCheckoutURL *string `gorm:"column:payment_checkout_url" json:"payment_checkout_url,omitempty"`

	// Payload mentah dari gateway (callback terakhir yang diterapkan).
	PaymentGatewayData datatypes.JSONMap `gorm:"column:payment_gateway_data;type:jsonb" json:"payment_gateway_data,omitempty"`

	PaymentPaidAt     *time.Time `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`
	PaymentFailedAt   *time.Time `gorm:"column:payment_failed_at" json:"payment_failed_at,omitempty"`
	PaymentCanceledAt *time.Time `gorm:"column:payment_canceled_at" json:"payment_canceled_at,omitempty"`

	PaymentCreatedAt time.Time      `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time      `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
	PaymentDeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"payment_deleted_at,omitempty"`
}

func (PaymentModel) TableName() string { return "payments" }

func (p *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}

// IsTerminal: status selain PENDING sudah final; callback ulang jadi no-op.
func (p *PaymentModel) IsTerminal() bool {
	return p.PaymentStatus != PaymentStatusPending
}
