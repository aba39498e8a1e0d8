package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventku_backend/internals/features/events/dto"
	"eventku_backend/internals/features/events/model"
	helper "eventku_backend/internals/helpers"
)

type EventController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{DB: db, Validator: validator.New()}
}

/* =======================================================================
   CRUD
======================================================================= */

// POST /api/events
func (ctl *EventController) CreateEvent(c *fiber.Ctx) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel(organizerID)
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "gagal membuat event: "+err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Event berhasil dibuat", dto.ToEventResponse(m))
}

// PATCH /api/events/:id (hanya organizer)
func (ctl *EventController) UpdateEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&m, "event_id = ? AND event_organizer_id = ?", eventID, organizerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "event tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	req.Apply(&m)
	if err := ctl.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "gagal update event: "+err.Error())
	}
	return helper.Success(c, "Event berhasil diupdate", dto.ToEventResponse(&m))
}

// GET /api/events — list publik dengan search, filter tipe, pagination
func (ctl *EventController) GetAllEvents(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc")

	q := ctl.DB.WithContext(c.Context()).Model(&model.EventModel{})

	if term := strings.TrimSpace(c.Query("search_term")); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where(
			"LOWER(event_title) LIKE ? OR event_organizer_id IN (SELECT user_id FROM users WHERE LOWER(user_name) LIKE ? AND user_deleted_at IS NULL)",
			like, like,
		)
	}

	switch strings.ToUpper(strings.TrimSpace(c.Query("event_type"))) {
	case model.EventFilterFreePublic:
		q = q.Where("event_is_public = ? AND event_fee = 0", true)
	case model.EventFilterPaidPublic:
		q = q.Where("event_is_public = ? AND event_fee > 0", true)
	case model.EventFilterFreePrivate:
		q = q.Where("event_is_public = ? AND event_fee = 0", false)
	case model.EventFilterPaidPrivate:
		q = q.Where("event_is_public = ? AND event_fee > 0", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	allowedSort := map[string]string{
		"created_at": "event_created_at",
		"date":       "event_date",
		"fee":        "event_fee",
		"title":      "event_title",
	}

	var events []model.EventModel
	if err := q.
		Order(p.OrderClause(allowedSort, "event_created_at")).
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&events).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Events berhasil diambil", fiber.Map{
		"events":     dto.ToEventResponseList(events),
		"pagination": helper.BuildPagination(p, total),
	})
}

// GET /api/events/my-events — event milik user login
func (ctl *EventController) GetMyEvents(c *fiber.Ctx) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var events []model.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("event_organizer_id = ?", organizerID).
		Order("event_created_at DESC").
		Find(&events).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Events berhasil diambil", dto.ToEventResponseList(events))
}

// GET /api/events/:id
func (ctl *EventController) GetSingleEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var m model.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&m, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "event tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Event berhasil diambil", dto.ToEventResponse(&m))
}

/* =======================================================================
   Delete (soft & hard)
======================================================================= */

// DELETE /api/events/:id — soft delete (flag saja, bisa diaudit)
func (ctl *EventController) SoftDeleteEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctl.DB.WithContext(c.Context()).
		Where("event_id = ? AND event_organizer_id = ?", eventID, organizerID).
		Delete(&model.EventModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "event tidak ditemukan")
	}
	return helper.Success(c, "Event berhasil dihapus", nil)
}

// DELETE /api/events/:id/hard — hard delete, tidak bisa dikembalikan
func (ctl *EventController) HardDeleteEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctl.DB.WithContext(c.Context()).Unscoped().
		Where("event_id = ? AND event_organizer_id = ?", eventID, organizerID).
		Delete(&model.EventModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "event tidak ditemukan")
	}
	return helper.Success(c, "Event berhasil dihapus permanen", nil)
}

/* =======================================================================
   Hero event
======================================================================= */

// PATCH /api/events/:id/hero (admin)
// Clear semua flag hero + set satu event dalam SATU transaksi supaya
// invariant "maksimal satu hero" tidak pernah bocor ke pembaca lain.
func (ctl *EventController) HeroSelect(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.HeroSelectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}

	var m model.EventModel
	txErr := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.EventModel{}).
			Where("event_is_hero = ?", true).
			Update("event_is_hero", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "gagal clear hero: "+err.Error())
		}

		res := tx.Model(&model.EventModel{}).
			Where("event_id = ?", eventID).
			Update("event_is_hero", req.Status)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "event tidak ditemukan")
		}

		return tx.First(&m, "event_id = ?", eventID).Error
	})
	if txErr != nil {
		return helper.FromFiberError(c, txErr)
	}
	return helper.Success(c, "Hero event berhasil diupdate", dto.ToEventResponse(&m))
}

// GET /api/events/hero
func (ctl *EventController) GetHeroEvent(c *fiber.Ctx) error {
	var m model.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&m, "event_is_hero = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "belum ada hero event")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Hero event berhasil diambil", dto.ToEventResponse(&m))
}
