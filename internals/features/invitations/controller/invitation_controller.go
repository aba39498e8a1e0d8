package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventku_backend/internals/features/invitations/dto"
	"eventku_backend/internals/features/invitations/model"
	"eventku_backend/internals/features/invitations/service"
	helper "eventku_backend/internals/helpers"
)

type InvitationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewInvitationController(db *gorm.DB) *InvitationController {
	return &InvitationController{DB: db, Validator: validator.New()}
}

// CreateInvitation: POST /invitations
func (h *InvitationController) CreateInvitation(c *fiber.Ctx) error {
	inviterID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "request tidak valid: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	inv, err := service.CreateInvitation(c.Context(), h.DB, inviterID, req.InviteeID, req.EventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "invitation terkirim", dto.ToInvitationResponse(inv))
}

// ResolveInvitation: PATCH /invitations/:id/resolve
func (h *InvitationController) ResolveInvitation(c *fiber.Ctx) error {
	callerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	invitationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invitation id tidak valid")
	}

	var req dto.ResolveInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "request tidak valid: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	inv, err := service.ResolveInvitation(c.Context(), h.DB, invitationID, callerID, req.Status)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	msg := "invitation ditolak"
	if inv.InvitationStatus == model.InvitationStatusAccepted {
		msg = "invitation diterima, Anda masuk daftar tunggu organizer"
	}
	return helper.Success(c, msg, dto.ToInvitationResponse(inv))
}

// GetMyReceivedInvitations: undangan PENDING untuk user login.
func (h *InvitationController) GetMyReceivedInvitations(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var rows []dto.InvitationResponse
	if err := h.DB.WithContext(c.Context()).Model(&model.InvitationModel{}).
		Select(`invitations.invitation_id, invitations.invitation_event_id,
			invitations.invitation_inviter_id, invitations.invitation_participant_id,
			invitations.invitation_status, invitations.invitation_has_read,
			invitations.invitation_created_at,
			events.event_title, users.user_name AS inviter_name`).
		Joins("JOIN events ON events.event_id = invitations.invitation_event_id").
		Joins("JOIN users ON users.user_id = invitations.invitation_inviter_id").
		Where("invitation_participant_id = ? AND invitation_status = ?", userID, model.InvitationStatusPending).
		Order("invitations.invitation_created_at DESC").
		Scan(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "undangan masuk", rows)
}

// GetMyCreatedInvitations: undangan yang dikirim user login.
func (h *InvitationController) GetMyCreatedInvitations(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var list []model.InvitationModel
	if err := h.DB.WithContext(c.Context()).
		Where("invitation_inviter_id = ?", userID).
		Order("invitation_created_at DESC").
		Find(&list).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.InvitationResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.ToInvitationResponse(&list[i]))
	}
	return helper.Success(c, "undangan terkirim", out)
}

// MarkAsRead: PATCH /invitations/:id/read — invitee menandai sudah dibaca.
func (h *InvitationController) MarkAsRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	invitationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invitation id tidak valid")
	}

	res := h.DB.WithContext(c.Context()).Model(&model.InvitationModel{}).
		Where("invitation_id = ? AND invitation_participant_id = ?", invitationID, userID).
		Update("invitation_has_read", true)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "invitation tidak ditemukan")
	}
	return helper.Success(c, "invitation ditandai dibaca", nil)
}

// DeleteInvitation: soft delete oleh pengirim (tarik undangan) selama
// masih PENDING.
func (h *InvitationController) DeleteInvitation(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	invitationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invitation id tidak valid")
	}

	var inv model.InvitationModel
	if err := h.DB.WithContext(c.Context()).First(&inv, "invitation_id = ?", invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "invitation tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if inv.InvitationInviterID != userID {
		return helper.Error(c, fiber.StatusForbidden, "bukan invitation yang Anda kirim")
	}
	if model.IsTerminal(inv.InvitationStatus) {
		return helper.Error(c, fiber.StatusConflict, "invitation sudah "+inv.InvitationStatus)
	}

	if err := h.DB.WithContext(c.Context()).Delete(&inv).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "gagal menghapus invitation: "+err.Error())
	}
	return helper.Success(c, "invitation dibatalkan", nil)
}
