package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventModel "eventku_backend/internals/features/events/model"
	participantModel "eventku_backend/internals/features/participants/model"
	"eventku_backend/internals/features/payments/model"
	"eventku_backend/internals/constants"
)

// ErrAlreadyFinal menandakan callback datang untuk payment yang sudah
// terminal. Bukan kegagalan: handler webhook wajib balas sukses supaya
// gateway berhenti retry (at-least-once delivery).
var ErrAlreadyFinal = errors.New("payment already in terminal state")

/* =========================================================
   Reconciliation engine
========================================================= */

// ApplyGatewayOutcome menerapkan satu outcome gateway ke payment dengan
// kunci transaction ID. Idempotent: outcome kedua untuk transaction yang
// sama tidak menghasilkan mutasi apa pun.
//
// Pada SUCCESS, dipastikan tepat satu participant non-deleted untuk
// (user, event) dengan has_paid=true: participant dibuat di sini karena
// pembuatan ditunda sampai pembayaran beres (tidak ada baris participant
// nganggur kalau pembayaran ditinggal); kalau participant sudah ada dari
// jalur undangan, cuma flag has_paid yang diubah.
func ApplyGatewayOutcome(ctx context.Context, db *gorm.DB, transactionID, outcome string, payload map[string]interface{}) (*model.PaymentModel, error) {
	var p model.PaymentModel

	txErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "payment_transaction_id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "payment dengan transaction id ini tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		if p.IsTerminal() {
			return ErrAlreadyFinal
		}

		now := time.Now()
		switch outcome {
		case model.OutcomeSuccess:
			p.PaymentStatus = model.PaymentStatusSuccess
			p.PaymentPaidAt = &now
		case model.OutcomeFail:
			p.PaymentStatus = model.PaymentStatusFailed
			p.PaymentFailedAt = &now
		case model.OutcomeCancel:
			p.PaymentStatus = model.PaymentStatusCanceled
			p.PaymentCanceledAt = &now
		default:
			return fiber.NewError(fiber.StatusBadRequest, "outcome tidak dikenal: "+outcome)
		}
		if payload != nil {
			p.PaymentGatewayData = payload
		}

		if err := tx.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "gagal update payment: "+err.Error())
		}

		if outcome == model.OutcomeSuccess {
			if err := ensurePaidParticipant(tx, &p); err != nil {
				return err
			}
		}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, ErrAlreadyFinal) {
			return &p, ErrAlreadyFinal
		}
		return nil, txErr
	}
	return &p, nil
}

// ensurePaidParticipant dipanggil di dalam transaksi SUCCESS.
func ensurePaidParticipant(tx *gorm.DB, p *model.PaymentModel) error {
	var existing participantModel.ParticipantModel
	err := tx.
		Where("participant_user_id = ? AND participant_event_id = ?", p.PaymentUserID, p.PaymentEventID).
		First(&existing).Error

	switch {
	case err == nil:
		// Participant dari jalur undangan: update has_paid saja, status
		// approval tetap urusan organizer.
		if !existing.ParticipantHasPaid {
			existing.ParticipantHasPaid = true
			if err := tx.Save(&existing).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "gagal update participant: "+err.Error())
			}
		}
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Deferred creation: baru ada baris participant setelah bayar.
		status := participantModel.ParticipantStatusPending
		var ev eventModel.EventModel
		if err := tx.Unscoped().First(&ev, "event_id = ?", p.PaymentEventID).Error; err == nil && ev.EventIsPublic {
			// Event publik berbayar: bayar = langsung diterima.
			status = participantModel.ParticipantStatusApproved
		}

		created := participantModel.ParticipantModel{
			ParticipantUserID:  p.PaymentUserID,
			ParticipantEventID: p.PaymentEventID,
			ParticipantStatus:  status,
			ParticipantHasPaid: true,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "gagal membuat participant: "+err.Error())
		}
		return nil

	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

/* =========================================================
   Verify (pull path)
========================================================= */

// VerifyPayment menanyakan status ke gateway secara aktif. Dipakai kalau
// push callback hilang; konvergen ke terminal state yang sama dengan
// jalur webhook, siapa pun yang lebih dulu.
func VerifyPayment(ctx context.Context, db *gorm.DB, gw Gateway, transactionID string, callerID string, callerRole string) (*model.PaymentModel, error) {
	var p model.PaymentModel
	if err := db.WithContext(ctx).
		First(&p, "payment_transaction_id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "payment dengan transaction id ini tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if callerRole != constants.RoleAdmin && p.PaymentUserID.String() != callerID {
		return nil, fiber.NewError(fiber.StatusForbidden, "bukan payment milik Anda")
	}

	// Sudah final (webhook menang duluan): tidak perlu tanya gateway.
	if p.IsTerminal() {
		return &p, nil
	}

	outcome, payload, err := gw.CheckStatus(transactionID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "gagal verifikasi ke gateway: "+err.Error())
	}
	if outcome == "" {
		// Masih pending di gateway.
		return &p, nil
	}

	applied, err := ApplyGatewayOutcome(ctx, db, transactionID, outcome, payload)
	if errors.Is(err, ErrAlreadyFinal) {
		// Race dengan webhook; state sudah benar.
		log.Printf("[INFO] verify %s: callback sudah diterapkan duluan", transactionID)
		return applied, nil
	}
	return applied, err
}
