package controller

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventku_backend/internals/configs"
	"eventku_backend/internals/features/payments/dto"
	"eventku_backend/internals/features/payments/model"
	"eventku_backend/internals/features/payments/service"
	helper "eventku_backend/internals/helpers"
)

type PaymentController struct {
	DB      *gorm.DB
	Gateway service.Gateway
}

func NewPaymentController(db *gorm.DB, gw service.Gateway) *PaymentController {
	return &PaymentController{DB: db, Gateway: gw}
}

/* =======================================================================
   Webhook Midtrans (tanpa auth, diverifikasi lewat signature)
======================================================================= */

// MidtransWebhook menerima push notification dari midtrans.
// Signature: SHA512(order_id + status_code + gross_amount + server_key).
// Delivery at-least-once: duplikat dan payment terminal dibalas 200
// supaya gateway berhenti retry.
func (h *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	var notif dto.MidtransNotificationRequest
	if err := c.BodyParser(&notif); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "payload tidak valid: "+err.Error())
	}

	want := strings.ToLower(notif.SignatureKey)
	raw := notif.OrderID + notif.StatusCode + notif.GrossAmount + configs.MidtransServerKey
	if want == "" || sha512sum(raw) != want {
		h.logGatewayEvent(c, nil, &notif, model.GatewayEventStatusFailed, "invalid signature")
		return helper.Error(c, fiber.StatusUnauthorized, "signature tidak valid")
	}

	outcome := service.MapMidtransStatus(notif.TransactionStatus, notif.FraudStatus)
	if outcome == "" {
		// pending / challenge: catat saja, belum ada keputusan.
		h.logGatewayEvent(c, nil, &notif, model.GatewayEventStatusReceived, "")
		return helper.Success(c, "notifikasi diterima, status belum final", fiber.Map{
			"order_id":           notif.OrderID,
			"transaction_status": notif.TransactionStatus,
		})
	}

	p, err := service.ApplyGatewayOutcome(c.Context(), h.DB, notif.OrderID, outcome, notifPayload(&notif))
	switch {
	case errors.Is(err, service.ErrAlreadyFinal):
		h.logGatewayEvent(c, &p.PaymentID, &notif, model.GatewayEventStatusProcessed, "duplicate delivery, already final")
		return helper.Success(c, "payment sudah final", fiber.Map{
			"order_id":       notif.OrderID,
			"payment_status": p.PaymentStatus,
		})
	case err != nil:
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code == fiber.StatusNotFound {
			// order_id nyasar: log lalu balas 200 supaya tidak di-retry terus.
			h.logGatewayEvent(c, nil, &notif, model.GatewayEventStatusFailed, "payment not found for order_id="+notif.OrderID)
			return helper.Success(c, "notifikasi diabaikan, payment tidak ditemukan", fiber.Map{
				"order_id": notif.OrderID,
			})
		}
		h.logGatewayEvent(c, nil, &notif, model.GatewayEventStatusFailed, err.Error())
		return helper.FromFiberError(c, err)
	}

	h.logGatewayEvent(c, &p.PaymentID, &notif, model.GatewayEventStatusProcessed, "")
	return helper.Success(c, "notifikasi diproses", fiber.Map{
		"order_id":           notif.OrderID,
		"payment_status":     p.PaymentStatus,
		"transaction_status": notif.TransactionStatus,
	})
}

/* =======================================================================
   Verify (pull) & daftar payment user
======================================================================= */

// VerifyPayment: GET /payments/:transaction_id/verify
// Jalur aktif kalau webhook tidak sampai; hanya pemilik payment atau admin.
func (h *PaymentController) VerifyPayment(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetRoleFromToken(c)

	transactionID := c.Params("transaction_id")
	if transactionID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "transaction_id wajib diisi")
	}

	p, err := service.VerifyPayment(c.Context(), h.DB, h.Gateway, transactionID, userID.String(), role)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "status payment", dto.ToPaymentResponse(p))
}

// GetMyPayments mengembalikan riwayat payment milik user login.
func (h *PaymentController) GetMyPayments(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	params := helper.ParseFiber(c, "created_at", "desc")
	allowed := map[string]string{
		"created_at": "payment_created_at",
		"amount":     "payment_amount",
		"status":     "payment_status",
	}

	var total int64
	q := h.DB.WithContext(c.Context()).Model(&model.PaymentModel{}).
		Where("payment_user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var list []model.PaymentModel
	if err := q.
		Order(params.OrderClause(allowed, "payment_created_at")).
		Limit(params.PerPage).Offset(params.Offset()).
		Find(&list).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "daftar payment", fiber.Map{
		"payments":   dto.ToPaymentResponseList(list),
		"pagination": helper.BuildPagination(params, total),
	})
}

/* =======================================================================
   Redirect dari halaman pembayaran (browser, tanpa auth)
======================================================================= */

// PaymentSuccessRedirect: browser balik dari snap dengan status sukses.
// Redirect browser tidak dipercaya begitu saja; status dikonfirmasi dulu
// ke gateway sebelum diterapkan.
func (h *PaymentController) PaymentSuccessRedirect(c *fiber.Ctx) error {
	transactionID := c.Params("transaction_id")
	if transactionID != "" {
		if outcome, payload, err := h.Gateway.CheckStatus(transactionID); err == nil && outcome != "" {
			_, _ = service.ApplyGatewayOutcome(c.Context(), h.DB, transactionID, outcome, payload)
		}
	}
	return c.Redirect(configs.PaymentSuccessURL, fiber.StatusFound)
}

// PaymentFailRedirect: pembayaran ditolak / gagal di halaman snap.
func (h *PaymentController) PaymentFailRedirect(c *fiber.Ctx) error {
	transactionID := c.Params("transaction_id")
	if transactionID != "" {
		_, _ = service.ApplyGatewayOutcome(c.Context(), h.DB, transactionID, model.OutcomeFail, nil)
	}
	return c.Redirect(configs.PaymentFailURL, fiber.StatusFound)
}

// PaymentCancelRedirect: user menutup / membatalkan halaman snap.
func (h *PaymentController) PaymentCancelRedirect(c *fiber.Ctx) error {
	transactionID := c.Params("transaction_id")
	if transactionID != "" {
		_, _ = service.ApplyGatewayOutcome(c.Context(), h.DB, transactionID, model.OutcomeCancel, nil)
	}
	return c.Redirect(configs.PaymentCancelURL, fiber.StatusFound)
}

/* =======================================================================
   Helpers: webhook
======================================================================= */

func sha512sum(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

func notifPayload(n *dto.MidtransNotificationRequest) map[string]interface{} {
	return map[string]interface{}{
		"transaction_time":   n.TransactionTime,
		"transaction_status": n.TransactionStatus,
		"transaction_id":     n.TransactionID,
		"status_message":     n.StatusMessage,
		"status_code":        n.StatusCode,
		"payment_type":       n.PaymentType,
		"order_id":           n.OrderID,
		"gross_amount":       n.GrossAmount,
		"fraud_status":       n.FraudStatus,
		"currency":           n.Currency,
	}
}

// logGatewayEvent best-effort: kegagalan audit tidak boleh menggagalkan webhook.
func (h *PaymentController) logGatewayEvent(c *fiber.Ctx, paymentID *uuid.UUID, notif *dto.MidtransNotificationRequest, status, errMsg string) {
	ev := model.PaymentGatewayEventModel{
		PaymentGatewayEventPaymentID:     paymentID,
		PaymentGatewayEventTransactionID: notif.OrderID,
		PaymentGatewayEventType:          notif.TransactionStatus,
		PaymentGatewayEventStatus:        status,
		PaymentGatewayEventPayload:       notifPayload(notif),
	}
	if errMsg != "" {
		ev.PaymentGatewayEventError = &errMsg
	}
	if status == model.GatewayEventStatusProcessed {
		now := time.Now()
		ev.PaymentGatewayEventProcessedAt = &now
	}
	if err := h.DB.WithContext(c.Context()).Create(&ev).Error; err != nil {
		log.Printf("[WARN] gagal simpan gateway event order_id=%s: %v", notif.OrderID, err)
	}
}
