package service

import (
	"context"
	"errors"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventku_backend/internals/configs"
	"eventku_backend/internals/constants"
	"eventku_backend/internals/features/users/model"
	helper "eventku_backend/internals/helpers"
)

const bcryptCost = 12

/* =========================================================
   Register & Login
========================================================= */

func Register(ctx context.Context, db *gorm.DB, userName, email, password string, profileImage *string) (*model.UserModel, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "gagal hash password")
	}

	u := &model.UserModel{
		UserName:         userName,
		UserEmail:        strings.ToLower(strings.TrimSpace(email)),
		UserPassword:     string(hashed),
		UserProfileImage: profileImage,
		UserRole:         constants.RoleUser,
		UserStatus:       constants.UserStatusActive,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if helper.IsDuplicateKeyError(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "email sudah terdaftar")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "gagal membuat user: "+err.Error())
	}
	return u, nil
}

func Login(ctx context.Context, db *gorm.DB, email, password string) (*model.UserModel, string, string, error) {
	var u model.UserModel
	if err := db.WithContext(ctx).
		Where("user_email = ? AND user_status = ?", strings.ToLower(strings.TrimSpace(email)), constants.UserStatusActive).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", fiber.NewError(fiber.StatusUnauthorized, "email atau password salah")
		}
		return nil, "", "", fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.UserPassword), []byte(password)); err != nil {
		return nil, "", "", fiber.NewError(fiber.StatusUnauthorized, "email atau password salah")
	}

	access, refresh, err := IssueTokenPair(&u)
	if err != nil {
		return nil, "", "", fiber.NewError(fiber.StatusInternalServerError, "gagal membuat token")
	}
	return &u, access, refresh, nil
}

/* =========================================================
   Google Login
========================================================= */

// GoogleLogin memverifikasi ID token Google, membuat user baru bila belum
// ada, lalu menerbitkan token pair seperti login biasa.
func GoogleLogin(ctx context.Context, db *gorm.DB, idToken string) (*model.UserModel, string, string, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	clientID := configs.GetEnv("GOOGLE_CLIENT_ID")
	if err := v.VerifyIDToken(idToken, []string{clientID}); err != nil {
		return nil, "", "", fiber.NewError(fiber.StatusUnauthorized, "ID token Google tidak valid")
	}

	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, "", "", fiber.NewError(fiber.StatusUnauthorized, "gagal decode ID token")
	}

	var u model.UserModel
	err = db.WithContext(ctx).
		Where("user_email = ?", strings.ToLower(claimSet.Email)).
		First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub := claimSet.Sub
		u = model.UserModel{
			UserName:     claimSet.Name,
			UserEmail:    strings.ToLower(claimSet.Email),
			UserPassword: "-", // akun google tidak punya password lokal
			UserGoogleID: &sub,
			UserRole:     constants.RoleUser,
			UserStatus:   constants.UserStatusActive,
		}
		if claimSet.Picture != "" {
			pic := claimSet.Picture
			u.UserProfileImage = &pic
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, "", "", fiber.NewError(fiber.StatusInternalServerError, "gagal membuat user google")
		}
	case err != nil:
		return nil, "", "", fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if !u.IsActive() {
		return nil, "", "", fiber.NewError(fiber.StatusForbidden, "akun Anda diblokir")
	}

	access, refresh, err := IssueTokenPair(&u)
	if err != nil {
		return nil, "", "", fiber.NewError(fiber.StatusInternalServerError, "gagal membuat token")
	}
	return &u, access, refresh, nil
}

/* =========================================================
   Refresh & Logout
========================================================= */

func RefreshTokens(ctx context.Context, db *gorm.DB, refreshToken string) (string, string, error) {
	claims, err := ParseRefreshClaims(refreshToken)
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusUnauthorized, "refresh token tidak valid")
	}

	userIDStr, _ := claims["user_id"].(string)
	var u model.UserModel
	if err := db.WithContext(ctx).
		Where("user_id = ? AND user_status = ?", userIDStr, constants.UserStatusActive).
		First(&u).Error; err != nil {
		return "", "", fiber.NewError(fiber.StatusUnauthorized, "user tidak ditemukan atau diblokir")
	}

	return func() (string, string, error) {
		access, refresh, err := IssueTokenPair(&u)
		if err != nil {
			return "", "", fiber.NewError(fiber.StatusInternalServerError, "gagal membuat token")
		}
		return access, refresh, nil
	}()
}

// Logout memasukkan access token ke blacklist sampai exp-nya lewat.
func Logout(ctx context.Context, db *gorm.DB, rawToken string) error {
	expiredAt := time.Now().Add(accessTTLDefault)

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	}); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			expiredAt = time.Unix(int64(exp), 0)
		}
	}

	entry := model.TokenBlacklistModel{Token: rawToken, ExpiredAt: expiredAt}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		if helper.IsDuplicateKeyError(err) {
			return nil // sudah di-blacklist, idempotent
		}
		return fiber.NewError(fiber.StatusInternalServerError, "gagal logout: "+err.Error())
	}
	return nil
}
