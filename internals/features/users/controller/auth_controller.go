package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/users/dto"
	"eventku_backend/internals/features/users/model"
	"eventku_backend/internals/features/users/service"
	helper "eventku_backend/internals/helpers"
)

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validator: validator.New()}
}

// POST /api/auth/register
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	u, err := service.Register(c.Context(), ctl.DB, req.UserName, req.Email, req.Password, req.ProfileImage)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Registrasi berhasil", dto.ToUserResponse(u))
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	u, access, refresh, err := service.Login(c.Context(), ctl.DB, req.Email, req.Password)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "Login berhasil", dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         dto.ToUserResponse(u),
	})
}

// POST /api/auth/google-login
func (ctl *AuthController) GoogleLogin(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	u, access, refresh, err := service.GoogleLogin(c.Context(), ctl.DB, req.IDToken)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Login Google berhasil", dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         dto.ToUserResponse(u),
	})
}

// POST /api/auth/refresh-token
func (ctl *AuthController) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if req.RefreshToken == "" {
		req.RefreshToken = helper.GetRefreshTokenFromCookie(c)
	}
	if req.RefreshToken == "" {
		return helper.Error(c, fiber.StatusBadRequest, "refresh_token wajib diisi")
	}

	access, refresh, err := service.RefreshTokens(c.Context(), ctl.DB, req.RefreshToken)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Token diperbarui", fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// POST /api/auth/logout
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Tidak ada token")
	}
	if err := service.Logout(c.Context(), ctl.DB, raw); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Logout berhasil", nil)
}

// GET /api/auth/me
func (ctl *AuthController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var u model.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&u, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "user tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Profil berhasil diambil", dto.ToUserResponse(&u))
}
