package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/users/controller"
	authMiddleware "eventku_backend/internals/middlewares/auth"
	"eventku_backend/internals/middlewares"
)

// AuthRoutes: endpoint publik (register/login) + sesi (me/logout/refresh).
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctl := controller.NewAuthController(db)

	public := app.Group("/api/auth")
	public.Post("/register", middlewares.RegisterRateLimiter(), ctl.Register)
	public.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	public.Post("/google-login", middlewares.LoginRateLimiter(), ctl.GoogleLogin)
	public.Post("/refresh-token", ctl.Refresh)

	private := app.Group("/api/auth", authMiddleware.AuthMiddleware(db))
	private.Get("/me", ctl.GetMe)
	private.Post("/logout", ctl.Logout)
}

// UserRoutes: manajemen user (sebagian besar admin).
func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewUserController(db)

	users := r.Group("/users")
	users.Get("/", authMiddleware.OnlyAdmin("daftar user"), ctl.GetAllUsers)
	users.Get("/:id", ctl.GetSingleUser)
	users.Patch("/:id", ctl.UpdateUser)
	users.Delete("/:id", authMiddleware.OnlyAdmin("hapus user"), ctl.DeleteUser)
}
