package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "eventku_backend/internals/features/events/model"
	"eventku_backend/internals/features/invitations/model"
	participantModel "eventku_backend/internals/features/participants/model"
	userModel "eventku_backend/internals/features/users/model"
	helper "eventku_backend/internals/helpers"
)

/* =========================================================
   Create
========================================================= */

// CreateInvitation mengundang user lain ke sebuah event. Pengundang harus
// punya standing di event itu: organizer, atau participant yang sudah
// APPROVED. Satu user hanya bisa punya satu invitation hidup per event.
func CreateInvitation(ctx context.Context, db *gorm.DB, inviterID, inviteeID, eventID uuid.UUID) (*model.InvitationModel, error) {
	if inviterID == inviteeID {
		return nil, fiber.NewError(fiber.StatusBadRequest, "tidak bisa mengundang diri sendiri")
	}

	var ev eventModel.EventModel
	if err := db.WithContext(ctx).First(&ev, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "event tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var inviter userModel.UserModel
	if err := db.WithContext(ctx).First(&inviter, "user_id = ?", inviterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "pengundang tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var invitee userModel.UserModel
	if err := db.WithContext(ctx).First(&invitee, "user_id = ?", inviteeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "user yang diundang tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := ensureInviterStanding(ctx, db, &ev, inviterID); err != nil {
		return nil, err
	}

	// Invitee sudah jadi participant → undangan tidak ada gunanya.
	var count int64
	if err := db.WithContext(ctx).Model(&participantModel.ParticipantModel{}).
		Where("participant_user_id = ? AND participant_event_id = ?", inviteeID, eventID).
		Count(&count).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if count > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "user sudah terdaftar di event ini")
	}

	inv := model.InvitationModel{
		InvitationEventID:       eventID,
		InvitationInviterID:     inviterID,
		InvitationParticipantID: inviteeID,
		InvitationStatus:        model.InvitationStatusPending,
	}

	txErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dup int64
		if err := tx.Model(&model.InvitationModel{}).
			Where("invitation_participant_id = ? AND invitation_event_id = ?", inviteeID, eventID).
			Count(&dup).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if dup > 0 {
			return fiber.NewError(fiber.StatusConflict, "user sudah diundang ke event ini")
		}
		if err := tx.Create(&inv).Error; err != nil {
			if helper.IsDuplicateKeyError(err) {
				return fiber.NewError(fiber.StatusConflict, "user sudah diundang ke event ini")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "gagal membuat invitation: "+err.Error())
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &inv, nil
}

func ensureInviterStanding(ctx context.Context, db *gorm.DB, ev *eventModel.EventModel, inviterID uuid.UUID) error {
	if ev.EventOrganizerID == inviterID {
		return nil
	}
	var p participantModel.ParticipantModel
	err := db.WithContext(ctx).
		Where("participant_user_id = ? AND participant_event_id = ?", inviterID, ev.EventID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !p.IsApproved()) {
		return fiber.NewError(fiber.StatusForbidden, "hanya organizer atau participant yang diterima yang bisa mengundang")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return nil
}

/* =========================================================
   Resolve (state machine)
========================================================= */

// ResolveInvitation: invitee menerima atau menolak undangan.
//
//	PENDING → ACCEPTED : update status + buat participant PENDING, satu transaksi
//	PENDING → REJECTED : update status saja
//	terminal → apapun  : 409, idempoten tidak berlaku di sini
//
// Hanya invitee sendiri yang boleh meresolve.
func ResolveInvitation(ctx context.Context, db *gorm.DB, invitationID, callerID uuid.UUID, newStatus string) (*model.InvitationModel, error) {
	if newStatus != model.InvitationStatusAccepted && newStatus != model.InvitationStatusRejected {
		return nil, fiber.NewError(fiber.StatusBadRequest, "status tidak dikenal: "+newStatus)
	}

	var inv model.InvitationModel

	txErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, "invitation_id = ?", invitationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "invitation tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		if inv.InvitationParticipantID != callerID {
			return fiber.NewError(fiber.StatusForbidden, "bukan invitation milik Anda")
		}
		if model.IsTerminal(inv.InvitationStatus) {
			return fiber.NewError(fiber.StatusConflict, "invitation sudah "+inv.InvitationStatus)
		}

		inv.InvitationStatus = newStatus
		inv.InvitationHasRead = true
		if err := tx.Save(&inv).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "gagal update invitation: "+err.Error())
		}

		if newStatus == model.InvitationStatusAccepted {
			// Transaksi yang sama: kalau insert participant gagal,
			// status invitation ikut batal.
			var count int64
			if err := tx.Model(&participantModel.ParticipantModel{}).
				Where("participant_user_id = ? AND participant_event_id = ?",
					inv.InvitationParticipantID, inv.InvitationEventID).
				Count(&count).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Anda sudah terdaftar di event ini")
			}

			p := participantModel.ParticipantModel{
				ParticipantUserID:   inv.InvitationParticipantID,
				ParticipantEventID:  inv.InvitationEventID,
				ParticipantStatus:   participantModel.ParticipantStatusPending,
				ParticipantInviteID: &inv.InvitationID,
			}
			if err := tx.Create(&p).Error; err != nil {
				if helper.IsDuplicateKeyError(err) {
					return fiber.NewError(fiber.StatusConflict, "Anda sudah terdaftar di event ini")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "gagal membuat participant: "+err.Error())
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &inv, nil
}
