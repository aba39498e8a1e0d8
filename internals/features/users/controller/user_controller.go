package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventku_backend/internals/constants"
	"eventku_backend/internals/features/users/dto"
	"eventku_backend/internals/features/users/model"
	helper "eventku_backend/internals/helpers"
)

type UserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validator: validator.New()}
}

// GET /api/users (admin)
func (ctl *UserController) GetAllUsers(c *fiber.Ctx) error {
	p := helper.ParseFiberWith(c, "created_at", "desc", helper.AdminOpts)

	allowedSort := map[string]string{
		"created_at": "user_created_at",
		"name":       "user_name",
		"email":      "user_email",
	}

	var total int64
	q := ctl.DB.WithContext(c.Context()).Model(&model.UserModel{})
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var users []model.UserModel
	if err := q.
		Order(p.OrderClause(allowedSort, "user_created_at")).
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&users).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Users berhasil diambil", fiber.Map{
		"users":      dto.ToUserResponseList(users),
		"pagination": helper.BuildPagination(p, total),
	})
}

// GET /api/users/:id
func (ctl *UserController) GetSingleUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var u model.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&u, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "user tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "User berhasil diambil", dto.ToUserResponse(&u))
}

// PATCH /api/users/:id
func (ctl *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	callerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	callerRole := helper.GetRoleFromToken(c)

	// User biasa hanya boleh edit profilnya sendiri.
	if callerRole != constants.RoleAdmin && callerID != id {
		return helper.Error(c, fiber.StatusForbidden, "tidak boleh mengubah user lain")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var u model.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&u, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "user tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if req.UserName != nil {
		u.UserName = *req.UserName
	}
	if req.ProfileImage != nil {
		u.UserProfileImage = req.ProfileImage
	}
	// Role & status cuma boleh diubah admin.
	if req.Role != nil || req.Status != nil {
		if callerRole != constants.RoleAdmin {
			return helper.Error(c, fiber.StatusForbidden, "hanya admin yang boleh mengubah role/status")
		}
		if req.Role != nil {
			u.UserRole = *req.Role
		}
		if req.Status != nil {
			u.UserStatus = *req.Status
		}
	}

	if err := ctl.DB.WithContext(c.Context()).Save(&u).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "gagal update user: "+err.Error())
	}
	return helper.Success(c, "User berhasil diupdate", dto.ToUserResponse(&u))
}

// DELETE /api/users/:id (admin, soft delete)
func (ctl *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	res := ctl.DB.WithContext(c.Context()).
		Where("user_id = ?", id).
		Delete(&model.UserModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "user tidak ditemukan")
	}
	return helper.Success(c, "User berhasil dihapus", nil)
}
