package service

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "eventku_backend/internals/features/events/model"
	"eventku_backend/internals/features/participants/model"
	paymentModel "eventku_backend/internals/features/payments/model"
	paymentService "eventku_backend/internals/features/payments/service"
	userModel "eventku_backend/internals/features/users/model"
	helper "eventku_backend/internals/helpers"
)

// AdmissionResult adalah hasil satu percobaan join event.
// RequiresPayment true berarti belum ada baris participant: user harus
// menyelesaikan pembayaran dulu lewat CheckoutURL.
type AdmissionResult struct {
	RequiresPayment bool
	Participant     *model.ParticipantModel
	Payment         *paymentModel.PaymentModel
	CheckoutURL     string
	TransactionID   string
}

/* =========================================================
   Admission engine
========================================================= */

// AdmitParticipant memutuskan jalur masuk user ke sebuah event:
//
//   - gratis + publik  → participant langsung APPROVED
//   - gratis + privat  → participant PENDING, nunggu keputusan organizer
//   - berbayar         → payment PENDING + checkout URL; participant baru
//     dibuat saat gateway melaporkan sukses (deferred creation)
//
// Organizer tidak bisa join event-nya sendiri.
func AdmitParticipant(ctx context.Context, db *gorm.DB, gw paymentService.Gateway, userID, eventID uuid.UUID, clientIP string) (*AdmissionResult, error) {
	var ev eventModel.EventModel
	if err := db.WithContext(ctx).First(&ev, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "event tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var user userModel.UserModel
	if err := db.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "user tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if ev.EventOrganizerID == userID {
		return nil, fiber.NewError(fiber.StatusBadRequest, "organizer tidak bisa join event sendiri")
	}

	// Sudah jadi participant (status apa pun yang masih hidup) → tolak.
	var count int64
	if err := db.WithContext(ctx).Model(&model.ParticipantModel{}).
		Where("participant_user_id = ? AND participant_event_id = ?", userID, eventID).
		Count(&count).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if count > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Anda sudah terdaftar di event ini")
	}

	if ev.IsFree() {
		return admitFree(ctx, db, &ev, userID)
	}
	return admitPaid(ctx, db, gw, &ev, &user, clientIP)
}

func admitFree(ctx context.Context, db *gorm.DB, ev *eventModel.EventModel, userID uuid.UUID) (*AdmissionResult, error) {
	status := model.ParticipantStatusPending
	if ev.EventIsPublic {
		status = model.ParticipantStatusApproved
	}

	p := model.ParticipantModel{
		ParticipantUserID:  userID,
		ParticipantEventID: ev.EventID,
		ParticipantStatus:  status,
	}
	if err := db.WithContext(ctx).Create(&p).Error; err != nil {
		if helper.IsDuplicateKeyError(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Anda sudah terdaftar di event ini")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "gagal mendaftarkan participant: "+err.Error())
	}
	return &AdmissionResult{Participant: &p}, nil
}

func admitPaid(ctx context.Context, db *gorm.DB, gw paymentService.Gateway, ev *eventModel.EventModel, user *userModel.UserModel, clientIP string) (*AdmissionResult, error) {
	// Payment PENDING yang masih hidup untuk (user, event) → jangan
	// bikin order kedua, arahkan balik ke checkout yang sudah ada.
	var open paymentModel.PaymentModel
	err := db.WithContext(ctx).
		Where("payment_user_id = ? AND payment_event_id = ? AND payment_status = ?",
			user.UserID, ev.EventID, paymentModel.PaymentStatusPending).
		First(&open).Error
	if err == nil {
		url := ""
		if open.PaymentCheckoutURL != nil {
			url = *open.PaymentCheckoutURL
		}
		return &AdmissionResult{
			RequiresPayment: true,
			Payment:         &open,
			CheckoutURL:     url,
			TransactionID:   open.PaymentTransactionID,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	// Fee desimal dibulatkan ke atas; gateway menagih rupiah bulat dan
	// pembulatan ke bawah berarti kurang tagih.
	amount := int(math.Ceil(ev.EventFee))
	transactionID := helper.GenerateTransactionID()

	p := paymentModel.PaymentModel{
		PaymentUserID:        user.UserID,
		PaymentEventID:       ev.EventID,
		PaymentAmount:        amount,
		PaymentTransactionID: transactionID,
		PaymentStatus:        paymentModel.PaymentStatusPending,
	}

	txErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "gagal membuat payment: "+err.Error())
		}

		res, err := gw.CreateCheckout(paymentService.CheckoutOrder{
			TransactionID: transactionID,
			Amount:        amount,
			EventTitle:    ev.EventTitle,
			BuyerName:     user.UserName,
			BuyerEmail:    user.UserEmail,
			ClientIP:      clientIP,
		})
		if err != nil {
			// Rollback baris payment; order di gateway tidak pernah jadi.
			log.Printf("[ERROR] checkout gagal tran_id=%s: %v", transactionID, err)
			return fiber.NewError(fiber.StatusBadGateway, "gagal membuat sesi pembayaran, coba lagi")
		}

		p.PaymentCheckoutURL = &res.CheckoutURL
		if err := tx.Model(&paymentModel.PaymentModel{}).
			Where("payment_id = ?", p.PaymentID).
			Update("payment_checkout_url", res.CheckoutURL).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "gagal simpan checkout url: "+err.Error())
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &AdmissionResult{
		RequiresPayment: true,
		Payment:         &p,
		CheckoutURL:     *p.PaymentCheckoutURL,
		TransactionID:   transactionID,
	}, nil
}
