package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventku_backend/internals/constants"
	participantModel "eventku_backend/internals/features/participants/model"
	"eventku_backend/internals/features/reviews/dto"
	"eventku_backend/internals/features/reviews/model"
	helper "eventku_backend/internals/helpers"
)

type ReviewController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db, Validator: validator.New()}
}

// CreateReview: hanya participant APPROVED yang boleh menilai, satu
// review per user per event.
func (h *ReviewController) CreateReview(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "request tidak valid: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var p participantModel.ParticipantModel
	err = h.DB.WithContext(c.Context()).
		Where("participant_user_id = ? AND participant_event_id = ?", userID, req.EventID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !p.IsApproved()) {
		return helper.Error(c, fiber.StatusForbidden, "hanya participant yang diterima yang bisa memberi review")
	}
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	review := model.ReviewModel{
		ReviewUserID:  userID,
		ReviewEventID: req.EventID,
		ReviewRating:  req.Rating,
		ReviewComment: req.Comment,
	}

	txErr := h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var dup int64
		if err := tx.Model(&model.ReviewModel{}).
			Where("review_user_id = ? AND review_event_id = ?", userID, req.EventID).
			Count(&dup).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if dup > 0 {
			return fiber.NewError(fiber.StatusConflict, "Anda sudah memberi review untuk event ini")
		}
		if err := tx.Create(&review).Error; err != nil {
			if helper.IsDuplicateKeyError(err) {
				return fiber.NewError(fiber.StatusConflict, "Anda sudah memberi review untuk event ini")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "gagal menyimpan review: "+err.Error())
		}
		return nil
	})
	if txErr != nil {
		return helper.FromFiberError(c, txErr)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "review tersimpan", dto.ToReviewResponse(&review))
}

// GetReviewsByEvent: publik, dengan nama penulis dan rata-rata rating.
func (h *ReviewController) GetReviewsByEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "event_id tidak valid")
	}

	params := helper.ParseFiber(c, "created_at", "desc")
	allowed := map[string]string{
		"created_at": "reviews.review_created_at",
		"rating":     "reviews.review_rating",
	}

	base := h.DB.WithContext(c.Context()).Model(&model.ReviewModel{}).
		Where("review_event_id = ?", eventID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var avg struct {
		AvgRating float64
	}
	if err := h.DB.WithContext(c.Context()).Model(&model.ReviewModel{}).
		Where("review_event_id = ?", eventID).
		Select("COALESCE(AVG(review_rating), 0) AS avg_rating").
		Scan(&avg).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []dto.ReviewResponse
	if err := base.
		Select(`reviews.review_id, reviews.review_user_id, reviews.review_event_id,
			reviews.review_rating, reviews.review_comment, reviews.review_created_at,
			users.user_name`).
		Joins("JOIN users ON users.user_id = reviews.review_user_id").
		Order(params.OrderClause(allowed, "reviews.review_created_at")).
		Limit(params.PerPage).Offset(params.Offset()).
		Scan(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "daftar review", fiber.Map{
		"reviews":    rows,
		"avg_rating": avg.AvgRating,
		"pagination": helper.BuildPagination(params, total),
	})
}

// UpdateReview: penulis mengubah rating/komentarnya sendiri.
func (h *ReviewController) UpdateReview(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "review id tidak valid")
	}

	var req dto.UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "request tidak valid: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var review model.ReviewModel
	if err := h.DB.WithContext(c.Context()).First(&review, "review_id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "review tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if review.ReviewUserID != userID {
		return helper.Error(c, fiber.StatusForbidden, "bukan review milik Anda")
	}

	if req.Rating != nil {
		review.ReviewRating = *req.Rating
	}
	if req.Comment != nil {
		review.ReviewComment = *req.Comment
	}
	if err := h.DB.WithContext(c.Context()).Save(&review).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "gagal update review: "+err.Error())
	}
	return helper.Success(c, "review diperbarui", dto.ToReviewResponse(&review))
}

// DeleteReview: penulisnya sendiri atau admin, soft delete.
func (h *ReviewController) DeleteReview(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetRoleFromToken(c)

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "review id tidak valid")
	}

	var review model.ReviewModel
	if err := h.DB.WithContext(c.Context()).First(&review, "review_id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "review tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if role != constants.RoleAdmin && review.ReviewUserID != userID {
		return helper.Error(c, fiber.StatusForbidden, "bukan review milik Anda")
	}

	if err := h.DB.WithContext(c.Context()).Delete(&review).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "gagal menghapus review: "+err.Error())
	}
	return helper.Success(c, "review dihapus", nil)
}
