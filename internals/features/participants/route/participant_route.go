package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/participants/controller"
	paymentService "eventku_backend/internals/features/payments/service"
)

// ParticipantRoutes: semua endpoint butuh auth.
func ParticipantRoutes(r fiber.Router, db *gorm.DB, gw paymentService.Gateway) {
	ctrl := controller.NewParticipantController(db, gw)

	participants := r.Group("/participants")
	participants.Post("/", ctrl.AdmitParticipant)
	participants.Get("/me", ctrl.GetMyParticipations)
	participants.Get("/event/:event_id", ctrl.GetParticipantsByEvent)
	participants.Patch("/:id/status", ctrl.UpdateParticipantStatus)
	participants.Delete("/:id", ctrl.DeleteParticipant)
}
