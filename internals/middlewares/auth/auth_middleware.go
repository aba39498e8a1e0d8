package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"eventku_backend/internals/configs"
	userModel "eventku_backend/internals/features/users/model"
	helper "eventku_backend/internals/helpers"
)

// Prefix publik yang di-skip auth: auth flow, listing publik, webhook
// gateway, dan redirect balik dari halaman pembayaran (dipanggil browser
// tanpa token).
var skipPrefixes = []string{
	"/api/auth/register",
	"/api/auth/login",
	"/api/auth/google-login",
	"/api/auth/refresh-token",
	"/api/public/",
	"/api/payments/notification",
	"/api/payments/success/",
	"/api/payments/fail/",
	"/api/payments/cancel/",
}

func shouldSkipAuth(path string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Skip path publik (webhook dsb.)
		if shouldSkipAuth(c.Path()) {
			return c.Next()
		}

		// 2) Ambil Authorization (atau cookie)
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		// 3) Cek blacklist (sekali per request)
		if c.Locals("token_checked") == nil {
			var existing userModel.TokenBlacklistModel
			if err := db.Where("token = ? AND deleted_at IS NULL", tokenString).First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Println("[ERROR] DB error saat cek blacklist:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			c.Locals("token_checked", true)
		}

		// 4) Parse & verifikasi JWT
		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		// 5) Validasi exp
		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 6) Ambil user_id & validasi user aktif
		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		c.Locals("user_id", userID.String())
		helper.SetRawAccessToken(c, tokenString)

		if err := ensureUserActive(db, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			return fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
		}

		// 7) Simpan info klaim ke context (role, email)
		storeBasicClaimsToLocals(c, claims)

		return c.Next()
	}
}
