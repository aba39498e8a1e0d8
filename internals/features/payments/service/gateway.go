package service

import (
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"eventku_backend/internals/features/payments/model"
)

/* =========================================================
   Gateway abstraction
========================================================= */

// CheckoutOrder adalah deskripsi order yang dikirim ke gateway.
type CheckoutOrder struct {
	TransactionID string
	Amount        int
	EventTitle    string
	BuyerName     string
	BuyerEmail    string
	ClientIP      string
}

type CheckoutResult struct {
	Token       string
	CheckoutURL string
}

// Gateway membungkus payment provider supaya admission & reconciliation
// bisa dites tanpa network. Implementasi production: MidtransGateway.
type Gateway interface {
	// CreateCheckout meminta halaman pembayaran; error berarti order
	// ditolak gateway dan transaksi DB pemanggil harus di-rollback.
	CreateCheckout(order CheckoutOrder) (*CheckoutResult, error)

	// CheckStatus menanyakan status transaksi ke gateway (pull path).
	// Outcome "" berarti belum final (masih pending di gateway).
	CheckStatus(transactionID string) (outcome string, payload map[string]interface{}, err error)
}

/* =========================================================
   Midtrans implementation
========================================================= */

type MidtransGateway struct {
	Snap snap.Client
	Core coreapi.Client
}

// NewMidtransGateway dipanggil sekali saat bootstrap app.
func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.Snap.New(serverKey, env)
	g.Core.New(serverKey, env)
	return g
}

func (g *MidtransGateway) CreateCheckout(order CheckoutOrder) (*CheckoutResult, error) {
	names := strings.SplitN(strings.TrimSpace(order.BuyerName), " ", 2)
	first := names[0]
	last := ""
	if len(names) > 1 {
		last = names[1]
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.TransactionID,
			GrossAmt: int64(order.Amount),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: order.BuyerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       order.TransactionID,
				Price:    int64(order.Amount),
				Qty:      1,
				Name:     truncate(order.EventTitle, 50),
				Category: "Event",
			},
		},
		CreditCard:   &snap.CreditCardDetails{Secure: true},
		CustomField1: truncate(order.ClientIP, 40),
	}

	resp, err := g.Snap.CreateTransaction(req)
	if err != nil {
		return nil, err
	}
	if resp.RedirectURL == "" {
		return nil, errors.New("midtrans: empty redirect url")
	}
	return &CheckoutResult{Token: resp.Token, CheckoutURL: resp.RedirectURL}, nil
}

func (g *MidtransGateway) CheckStatus(transactionID string) (string, map[string]interface{}, error) {
	resp, err := g.Core.CheckTransaction(transactionID)
	if err != nil {
		return "", nil, err
	}

	payload := map[string]interface{}{
		"transaction_id":     resp.TransactionID,
		"order_id":           resp.OrderID,
		"transaction_status": resp.TransactionStatus,
		"fraud_status":       resp.FraudStatus,
		"payment_type":       resp.PaymentType,
		"gross_amount":       resp.GrossAmount,
		"settlement_time":    resp.SettlementTime,
	}
	return MapMidtransStatus(resp.TransactionStatus, resp.FraudStatus), payload, nil
}

// MapMidtransStatus memetakan transaction_status midtrans ke outcome
// internal; "" berarti belum final.
func MapMidtransStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "settlement":
		return model.OutcomeSuccess
	case "capture":
		if fraudStatus == "challenge" {
			return "" // tunggu review; belum final
		}
		return model.OutcomeSuccess
	case "deny", "expire", "failure":
		return model.OutcomeFail
	case "cancel":
		return model.OutcomeCancel
	default: // pending, authorize, dll.
		return ""
	}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
