package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "eventku_backend/internals/databases"
	eventModel "eventku_backend/internals/features/events/model"
	invitationModel "eventku_backend/internals/features/invitations/model"
	"eventku_backend/internals/features/participants/model"
	reviewModel "eventku_backend/internals/features/reviews/model"
	paymentModel "eventku_backend/internals/features/payments/model"
	paymentService "eventku_backend/internals/features/payments/service"
	userModel "eventku_backend/internals/features/users/model"
	helper "eventku_backend/internals/helpers"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&eventModel.EventModel{},
		&model.ParticipantModel{},
		&invitationModel.InvitationModel{},
		&reviewModel.ReviewModel{},
		&paymentModel.PaymentModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.ApplyIndexes(db); err != nil {
		t.Fatalf("apply indexes: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserName:     "Budi",
		UserEmail:    uuid.New().String() + "@example.com",
		UserPassword: "-",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &u
}

func seedEvent(t *testing.T, db *gorm.DB, organizerID uuid.UUID, isPublic bool, fee float64) *eventModel.EventModel {
	t.Helper()
	ev := eventModel.EventModel{
		EventOrganizerID: organizerID,
		EventTitle:       "Konser Amal",
		EventType:        eventModel.EventTypeOffline,
		EventDate:        time.Now().Add(72 * time.Hour),
		EventVenueOrLink: "Bandung",
		EventFee:         fee,
		EventIsPublic:    isPublic,
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return &ev
}

func fiberStatus(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		t.Fatalf("want *fiber.Error, got %T: %v", err, err)
	}
	return fe.Code
}

type fakeGateway struct {
	checkoutErr error
	calls       int
}

func (f *fakeGateway) CreateCheckout(order paymentService.CheckoutOrder) (*paymentService.CheckoutResult, error) {
	f.calls++
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return &paymentService.CheckoutResult{
		Token:       "tok-" + order.TransactionID,
		CheckoutURL: "https://app.sandbox.midtrans.com/snap/v3/" + order.TransactionID,
	}, nil
}

func (f *fakeGateway) CheckStatus(transactionID string) (string, map[string]interface{}, error) {
	return "", nil, nil
}

func TestAdmitParticipantFree(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		isPublic   bool
		wantStatus string
	}{
		{"free public approves immediately", true, model.ParticipantStatusApproved},
		{"free private waits for organizer", false, model.ParticipantStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			organizer := seedUser(t, db)
			user := seedUser(t, db)
			ev := seedEvent(t, db, organizer.UserID, tt.isPublic, 0)

			gw := &fakeGateway{}
			res, err := AdmitParticipant(ctx, db, gw, user.UserID, ev.EventID, "10.0.0.1")
			if err != nil {
				t.Fatalf("admit: %v", err)
			}
			if res.RequiresPayment {
				t.Fatal("free event should not require payment")
			}
			if res.Participant == nil {
				t.Fatal("participant missing")
			}
			if res.Participant.ParticipantStatus != tt.wantStatus {
				t.Errorf("status = %s, want %s", res.Participant.ParticipantStatus, tt.wantStatus)
			}
			if gw.calls != 0 {
				t.Errorf("gateway called %d times for free event", gw.calls)
			}
		})
	}
}

func TestAdmitParticipantPaid(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	organizer := seedUser(t, db)
	user := seedUser(t, db)
	ev := seedEvent(t, db, organizer.UserID, true, 250000)

	gw := &fakeGateway{}
	res, err := AdmitParticipant(ctx, db, gw, user.UserID, ev.EventID, "10.0.0.1")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if !res.RequiresPayment {
		t.Fatal("paid event should require payment")
	}
	if res.CheckoutURL == "" || res.TransactionID == "" {
		t.Fatal("checkout url / transaction id missing")
	}

	// Participant belum boleh ada sebelum pembayaran sukses.
	var pCount int64
	db.Model(&model.ParticipantModel{}).
		Where("participant_user_id = ?", user.UserID).Count(&pCount)
	if pCount != 0 {
		t.Errorf("participant count = %d before payment, want 0", pCount)
	}

	var pay paymentModel.PaymentModel
	if err := db.First(&pay, "payment_transaction_id = ?", res.TransactionID).Error; err != nil {
		t.Fatalf("payment row missing: %v", err)
	}
	if pay.PaymentStatus != paymentModel.PaymentStatusPending {
		t.Errorf("payment status = %s, want PENDING", pay.PaymentStatus)
	}
	if pay.PaymentAmount != 250000 {
		t.Errorf("amount = %d, want 250000", pay.PaymentAmount)
	}
	if pay.PaymentCheckoutURL == nil || *pay.PaymentCheckoutURL != res.CheckoutURL {
		t.Error("checkout url not persisted on payment row")
	}
}

func TestAdmitParticipantPaidRoundsFeeUp(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	organizer := seedUser(t, db)
	user := seedUser(t, db)
	ev := seedEvent(t, db, organizer.UserID, true, 499.5)

	res, err := AdmitParticipant(ctx, db, &fakeGateway{}, user.UserID, ev.EventID, "10.0.0.1")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}

	var pay paymentModel.PaymentModel
	if err := db.First(&pay, "payment_transaction_id = ?", res.TransactionID).Error; err != nil {
		t.Fatalf("payment row missing: %v", err)
	}
	// Pembulatan selalu ke atas, jangan kurang tagih.
	if pay.PaymentAmount != 500 {
		t.Errorf("amount = %d, want 500", pay.PaymentAmount)
	}
}

func TestAdmitParticipantPaidReusesOpenPayment(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	organizer := seedUser(t, db)
	user := seedUser(t, db)
	ev := seedEvent(t, db, organizer.UserID, true, 250000)

	gw := &fakeGateway{}
	first, err := AdmitParticipant(ctx, db, gw, user.UserID, ev.EventID, "10.0.0.1")
	if err != nil {
		t.Fatalf("first admit: %v", err)
	}
	second, err := AdmitParticipant(ctx, db, gw, user.UserID, ev.EventID, "10.0.0.1")
	if err != nil {
		t.Fatalf("second admit: %v", err)
	}
	if second.TransactionID != first.TransactionID {
		t.Errorf("second admit made a new order %s, want reuse of %s", second.TransactionID, first.TransactionID)
	}
	if gw.calls != 1 {
		t.Errorf("gateway calls = %d, want 1", gw.calls)
	}

	var count int64
	db.Model(&paymentModel.PaymentModel{}).
		Where("payment_user_id = ?", user.UserID).Count(&count)
	if count != 1 {
		t.Errorf("payment rows = %d, want 1", count)
	}
}

func TestAdmitParticipantGatewayFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	organizer := seedUser(t, db)
	user := seedUser(t, db)
	ev := seedEvent(t, db, organizer.UserID, true, 250000)

	gw := &fakeGateway{checkoutErr: errors.New("midtrans down")}
	_, err := AdmitParticipant(ctx, db, gw, user.UserID, ev.EventID, "10.0.0.1")
	if code := fiberStatus(t, err); code != fiber.StatusBadGateway {
		t.Fatalf("status = %d, want 502", code)
	}

	// Baris payment ikut rollback, user bisa coba lagi dari nol.
	var count int64
	db.Model(&paymentModel.PaymentModel{}).
		Where("payment_user_id = ?", user.UserID).Count(&count)
	if count != 0 {
		t.Errorf("payment rows = %d after rollback, want 0", count)
	}
}

// Dua request yang lolos check-then-insert bersamaan berakhir di index
// partial ux_participants_user_event_live: insert kedua harus gagal
// sebagai duplicate key, dan baris soft-deleted tidak boleh memblokir
// pendaftaran ulang.
func TestParticipantUniqueIndexLastGuard(t *testing.T) {
	db := newTestDB(t)
	organizer := seedUser(t, db)
	user := seedUser(t, db)
	ev := seedEvent(t, db, organizer.UserID, true, 0)

	first := model.ParticipantModel{
		ParticipantUserID:  user.UserID,
		ParticipantEventID: ev.EventID,
		ParticipantStatus:  model.ParticipantStatusApproved,
	}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}

	second := model.ParticipantModel{
		ParticipantUserID:  user.UserID,
		ParticipantEventID: ev.EventID,
		ParticipantStatus:  model.ParticipantStatusPending,
	}
	err := db.Create(&second).Error
	if err == nil {
		t.Fatal("second live insert succeeded, unique index not enforced")
	}
	if !helper.IsDuplicateKeyError(err) {
		t.Fatalf("err = %v, not detected as duplicate key", err)
	}

	// Setelah soft delete, slot (user, event) bebas lagi.
	if err := db.Delete(&first).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	second.ParticipantID = uuid.Nil
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("re-insert after soft delete: %v", err)
	}
}

func TestAdmitParticipantRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("organizer cannot join own event", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID, true, 0)

		_, err := AdmitParticipant(ctx, db, &fakeGateway{}, organizer.UserID, ev.EventID, "")
		if code := fiberStatus(t, err); code != fiber.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	})

	t.Run("double admit conflicts", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		user := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID, true, 0)

		if _, err := AdmitParticipant(ctx, db, &fakeGateway{}, user.UserID, ev.EventID, ""); err != nil {
			t.Fatalf("first admit: %v", err)
		}
		_, err := AdmitParticipant(ctx, db, &fakeGateway{}, user.UserID, ev.EventID, "")
		if code := fiberStatus(t, err); code != fiber.StatusConflict {
			t.Errorf("status = %d, want 409", code)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db)

		_, err := AdmitParticipant(ctx, db, &fakeGateway{}, user.UserID, uuid.New(), "")
		if code := fiberStatus(t, err); code != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID, true, 0)

		_, err := AdmitParticipant(ctx, db, &fakeGateway{}, uuid.New(), ev.EventID, "")
		if code := fiberStatus(t, err); code != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", code)
		}
	})
}
