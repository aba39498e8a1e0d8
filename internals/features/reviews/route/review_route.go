package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/reviews/controller"
)

// PublicReviewRoutes: daftar review bisa dibaca tanpa login.
func PublicReviewRoutes(app fiber.Router, db *gorm.DB) {
	ctrl := controller.NewReviewController(db)
	app.Get("/reviews/event/:event_id", ctrl.GetReviewsByEvent)
}

// ReviewRoutes: mutasi butuh auth.
func ReviewRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewReviewController(db)

	reviews := r.Group("/reviews")
	reviews.Post("/", ctrl.CreateReview)
	reviews.Patch("/:id", ctrl.UpdateReview)
	reviews.Delete("/:id", ctrl.DeleteReview)
}
