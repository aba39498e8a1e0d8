package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/configs"
	eventRoute "eventku_backend/internals/features/events/route"
	invitationRoute "eventku_backend/internals/features/invitations/route"
	participantRoute "eventku_backend/internals/features/participants/route"
	paymentRoute "eventku_backend/internals/features/payments/route"
	paymentService "eventku_backend/internals/features/payments/service"
	reviewRoute "eventku_backend/internals/features/reviews/route"
	userRoute "eventku_backend/internals/features/users/route"
	authMiddleware "eventku_backend/internals/middlewares/auth"
)

var startTime time.Time

// SetupRoutes merakit seluruh endpoint aplikasi. Satu instance gateway
// dishare ke semua controller yang butuh midtrans.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	gw := paymentService.NewMidtransGateway(configs.MidtransServerKey, configs.MidtransUseProd)

	BaseRoutes(app, db)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	userRoute.AuthRoutes(app, db)

	// ===================== PUBLIC (tanpa JWT) =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	eventRoute.PublicEventRoutes(app, db)
	reviewRoute.PublicReviewRoutes(public, db)

	// Callback gateway + redirect browser sengaja di luar group auth.
	log.Println("[INFO] Setting up payment gateway routes...")
	paymentRoute.PublicPaymentRoutes(app.Group("/api"), db, gw)

	// ===================== PRIVATE (JWT) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api", authMiddleware.AuthMiddleware(db))

	userRoute.UserRoutes(private, db)
	eventRoute.EventRoutes(private, db)
	participantRoute.ParticipantRoutes(private, db, gw)
	invitationRoute.InvitationRoutes(private, db)
	paymentRoute.PaymentRoutes(private, db, gw)
	reviewRoute.ReviewRoutes(private, db)
}
