package auth

import (
	"github.com/gofiber/fiber/v2"

	"eventku_backend/internals/constants"
)

// RequireRoles validasi role dari Locals("user_role"): 401 kalau klaim
// role tidak ada, 403 kalau role tidak termasuk allowedRoles.
func RequireRoles(customForbiddenMessage string, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok || role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return fiber.NewError(fiber.StatusForbidden, customForbiddenMessage)
	}
}

// OnlyAdmin shortcut untuk endpoint khusus admin.
func OnlyAdmin(feature string) fiber.Handler {
	return RequireRoles(constants.RoleErrorAdmin(feature), constants.RoleAdmin)
}
