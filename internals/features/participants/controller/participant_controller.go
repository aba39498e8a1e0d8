package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventku_backend/internals/constants"
	eventModel "eventku_backend/internals/features/events/model"
	"eventku_backend/internals/features/participants/dto"
	"eventku_backend/internals/features/participants/model"
	"eventku_backend/internals/features/participants/service"
	paymentService "eventku_backend/internals/features/payments/service"
	helper "eventku_backend/internals/helpers"
)

type ParticipantController struct {
	DB        *gorm.DB
	Gateway   paymentService.Gateway
	Validator *validator.Validate
}

func NewParticipantController(db *gorm.DB, gw paymentService.Gateway) *ParticipantController {
	return &ParticipantController{DB: db, Gateway: gw, Validator: validator.New()}
}

/* =========================================================
   Join event
========================================================= */

// AdmitParticipant: POST /participants
func (h *ParticipantController) AdmitParticipant(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.AdmitParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "request tidak valid: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := service.AdmitParticipant(c.Context(), h.DB, h.Gateway, userID, req.EventID, c.IP())
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	resp := dto.AdmissionResponse{
		RequiresPayment: res.RequiresPayment,
		CheckoutURL:     res.CheckoutURL,
		TransactionID:   res.TransactionID,
	}
	if res.Participant != nil {
		pr := dto.ToParticipantResponse(res.Participant)
		resp.Participant = &pr
	}

	if res.RequiresPayment {
		return helper.SuccessWithCode(c, fiber.StatusCreated, "selesaikan pembayaran untuk bergabung", resp)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "berhasil bergabung ke event", resp)
}

/* =========================================================
   Query
========================================================= */

// GetParticipantsByEvent: organizer event atau admin.
func (h *ParticipantController) GetParticipantsByEvent(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetRoleFromToken(c)

	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "event_id tidak valid")
	}

	var ev eventModel.EventModel
	if err := h.DB.WithContext(c.Context()).First(&ev, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "event tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if role != constants.RoleAdmin && ev.EventOrganizerID != userID {
		return helper.Error(c, fiber.StatusForbidden, "hanya organizer event yang bisa melihat daftar participant")
	}

	params := helper.ParseFiber(c, "created_at", "desc")
	allowed := map[string]string{
		"created_at": "participants.participant_created_at",
		"status":     "participants.participant_status",
		"name":       "users.user_name",
	}

	base := h.DB.WithContext(c.Context()).Model(&model.ParticipantModel{}).
		Where("participant_event_id = ?", eventID)
	if status := c.Query("status"); status != "" {
		base = base.Where("participant_status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []dto.ParticipantResponse
	if err := base.
		Select(`participants.participant_id, participants.participant_user_id,
			participants.participant_event_id, participants.participant_status,
			participants.participant_has_paid, participants.participant_invite_id,
			participants.participant_created_at,
			users.user_name, users.user_email`).
		Joins("JOIN users ON users.user_id = participants.participant_user_id").
		Order(params.OrderClause(allowed, "participants.participant_created_at")).
		Limit(params.PerPage).Offset(params.Offset()).
		Scan(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "daftar participant", fiber.Map{
		"participants": rows,
		"pagination":   helper.BuildPagination(params, total),
	})
}

// GetMyParticipations: daftar event yang diikuti user login.
func (h *ParticipantController) GetMyParticipations(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var list []model.ParticipantModel
	if err := h.DB.WithContext(c.Context()).
		Where("participant_user_id = ?", userID).
		Order("participant_created_at DESC").
		Find(&list).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.ParticipantResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.ToParticipantResponse(&list[i]))
	}
	return helper.Success(c, "daftar partisipasi", out)
}

/* =========================================================
   Mutasi oleh organizer
========================================================= */

// UpdateParticipantStatus: PATCH /participants/:id/status
// Organizer event (atau admin) mengubah PENDING → APPROVED/REJECTED/BANNED.
func (h *ParticipantController) UpdateParticipantStatus(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetRoleFromToken(c)

	participantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "participant id tidak valid")
	}

	var req dto.UpdateParticipantStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "request tidak valid: "+err.Error())
	}
	if !model.ValidStatus(req.Status) {
		return helper.Error(c, fiber.StatusBadRequest, "status tidak dikenal: "+req.Status)
	}

	var p model.ParticipantModel
	if err := h.DB.WithContext(c.Context()).First(&p, "participant_id = ?", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "participant tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var ev eventModel.EventModel
	if err := h.DB.WithContext(c.Context()).First(&ev, "event_id = ?", p.ParticipantEventID).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if role != constants.RoleAdmin && ev.EventOrganizerID != userID {
		return helper.Error(c, fiber.StatusForbidden, "hanya organizer event yang bisa mengubah status participant")
	}

	p.ParticipantStatus = req.Status
	if err := h.DB.WithContext(c.Context()).Save(&p).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "gagal update status: "+err.Error())
	}
	return helper.Success(c, "status participant diperbarui", dto.ToParticipantResponse(&p))
}

// DeleteParticipant: soft delete, organizer atau admin.
func (h *ParticipantController) DeleteParticipant(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetRoleFromToken(c)

	participantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "participant id tidak valid")
	}

	var p model.ParticipantModel
	if err := h.DB.WithContext(c.Context()).First(&p, "participant_id = ?", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "participant tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var ev eventModel.EventModel
	if err := h.DB.WithContext(c.Context()).First(&ev, "event_id = ?", p.ParticipantEventID).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if role != constants.RoleAdmin && ev.EventOrganizerID != userID {
		return helper.Error(c, fiber.StatusForbidden, "hanya organizer event yang bisa menghapus participant")
	}

	if err := h.DB.WithContext(c.Context()).Delete(&p).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "gagal menghapus participant: "+err.Error())
	}
	return helper.Success(c, "participant dihapus", nil)
}
