package dto

import (
	"time"

	"github.com/google/uuid"

	"eventku_backend/internals/features/payments/model"
)

// MidtransNotificationRequest adalah payload webhook dari midtrans.
// Field lain di payload tetap disimpan utuh ke payment_gateway_data.
type MidtransNotificationRequest struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusMessage     string `json:"status_message"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	FraudStatus       string `json:"fraud_status"`
	Currency          string `json:"currency"`
}

type PaymentResponse struct {
	PaymentID            uuid.UUID  `json:"payment_id"`
	PaymentUserID        uuid.UUID  `json:"payment_user_id"`
	PaymentEventID       uuid.UUID  `json:"payment_event_id"`
	PaymentAmount        int        `json:"payment_amount"`
	PaymentTransactionID string     `json:"payment_transaction_id"`
	PaymentStatus        string     `json:"payment_status"`
	PaymentCheckoutURL   *string    `json:"payment_checkout_url,omitempty"`
	PaymentPaidAt        *time.Time `json:"payment_paid_at,omitempty"`
	PaymentCreatedAt     time.Time  `json:"payment_created_at"`
}

func ToPaymentResponse(p *model.PaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:            p.PaymentID,
		PaymentUserID:        p.PaymentUserID,
		PaymentEventID:       p.PaymentEventID,
		PaymentAmount:        p.PaymentAmount,
		PaymentTransactionID: p.PaymentTransactionID,
		PaymentStatus:        p.PaymentStatus,
		PaymentCheckoutURL:   p.PaymentCheckoutURL,
		PaymentPaidAt:        p.PaymentPaidAt,
		PaymentCreatedAt:     p.PaymentCreatedAt,
	}
}

func ToPaymentResponseList(list []model.PaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(list))
	for i := range list {
		out = append(out, ToPaymentResponse(&list[i]))
	}
	return out
}
