package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/payments/controller"
	"eventku_backend/internals/features/payments/service"
)

// PublicPaymentRoutes: callback gateway + redirect browser.
// Tanpa auth middleware; webhook diverifikasi lewat signature.
func PublicPaymentRoutes(app fiber.Router, db *gorm.DB, gw service.Gateway) {
	ctrl := controller.NewPaymentController(db, gw)

	payments := app.Group("/payments")
	payments.Post("/notification", ctrl.MidtransWebhook)
	payments.Get("/success/:transaction_id", ctrl.PaymentSuccessRedirect)
	payments.Get("/fail/:transaction_id", ctrl.PaymentFailRedirect)
	payments.Get("/cancel/:transaction_id", ctrl.PaymentCancelRedirect)
}

// PaymentRoutes: endpoint milik user login.
func PaymentRoutes(r fiber.Router, db *gorm.DB, gw service.Gateway) {
	ctrl := controller.NewPaymentController(db, gw)

	payments := r.Group("/payments")
	payments.Get("/me", ctrl.GetMyPayments)
	payments.Get("/:transaction_id/verify", ctrl.VerifyPayment)
}
