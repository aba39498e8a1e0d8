package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/events/controller"
	authMiddleware "eventku_backend/internals/middlewares/auth"
)

// PublicEventRoutes: listing & detail tanpa login.
func PublicEventRoutes(app *fiber.App, db *gorm.DB) {
	ctl := controller.NewEventController(db)

	events := app.Group("/api/public/events")
	events.Get("/", ctl.GetAllEvents)
	events.Get("/hero", ctl.GetHeroEvent)
	events.Get("/:id", ctl.GetSingleEvent)
}

// EventRoutes: operasi yang butuh login.
func EventRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewEventController(db)

	events := r.Group("/events")
	events.Post("/", ctl.CreateEvent)
	events.Get("/my-events", ctl.GetMyEvents)
	events.Patch("/:id/hero", authMiddleware.OnlyAdmin("hero event"), ctl.HeroSelect)
	events.Patch("/:id", ctl.UpdateEvent)
	events.Delete("/:id/hard", ctl.HardDeleteEvent)
	events.Delete("/:id", ctl.SoftDeleteEvent)
}
