package service

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"eventku_backend/internals/configs"
	"eventku_backend/internals/features/users/model"
)

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
)

// buildClaims membentuk klaim standar {user_id, email, role, exp, iat}.
func buildClaims(u *model.UserModel, ttl time.Duration) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"user_id": u.UserID.String(),
		"email":   u.UserEmail,
		"role":    u.UserRole,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
}

// IssueTokenPair menandatangani access + refresh token untuk user.
func IssueTokenPair(u *model.UserModel) (accessToken string, refreshToken string, err error) {
	accessToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, buildClaims(u, accessTTLDefault)).
		SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return "", "", err
	}
	refreshToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, buildClaims(u, refreshTTLDefault)).
		SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// ParseRefreshClaims memverifikasi refresh token dan mengembalikan klaimnya.
func ParseRefreshClaims(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
