package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/invitations/controller"
)

// InvitationRoutes: semua endpoint butuh auth.
func InvitationRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewInvitationController(db)

	invitations := r.Group("/invitations")
	invitations.Post("/", ctrl.CreateInvitation)
	invitations.Get("/received", ctrl.GetMyReceivedInvitations)
	invitations.Get("/sent", ctrl.GetMyCreatedInvitations)
	invitations.Patch("/:id/resolve", ctrl.ResolveInvitation)
	invitations.Patch("/:id/read", ctrl.MarkAsRead)
	invitations.Delete("/:id", ctrl.DeleteInvitation)
}
