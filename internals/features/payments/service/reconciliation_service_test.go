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
	participantModel "eventku_backend/internals/features/participants/model"
	"eventku_backend/internals/features/payments/model"
	reviewModel "eventku_backend/internals/features/reviews/model"
	userModel "eventku_backend/internals/features/users/model"
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
		&participantModel.ParticipantModel{},
		&invitationModel.InvitationModel{},
		&reviewModel.ReviewModel{},
		&model.PaymentModel{},
		&model.PaymentGatewayEventModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.ApplyIndexes(db); err != nil {
		t.Fatalf("apply indexes: %v", err)
	}
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, isPublic bool, fee float64) *eventModel.EventModel {
	t.Helper()
	ev := eventModel.EventModel{
		EventOrganizerID: uuid.New(),
		EventTitle:       "Workshop Golang",
		EventType:        eventModel.EventTypeOffline,
		EventDate:        time.Now().Add(48 * time.Hour),
		EventVenueOrLink: "Jakarta",
		EventFee:         fee,
		EventIsPublic:    isPublic,
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return &ev
}

func seedPendingPayment(t *testing.T, db *gorm.DB, userID, eventID uuid.UUID) *model.PaymentModel {
	t.Helper()
	p := model.PaymentModel{
		PaymentUserID:        userID,
		PaymentEventID:       eventID,
		PaymentAmount:        150000,
		PaymentTransactionID: "EVT-1700000000-deadbeef",
		PaymentStatus:        model.PaymentStatusPending,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return &p
}

func fiberStatus(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		t.Fatalf("want *fiber.Error, got %T: %v", err, err)
	}
	return fe.Code
}

func TestApplyGatewayOutcomeSuccessCreatesParticipant(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		isPublic   bool
		wantStatus string
	}{
		{"public paid event approves immediately", true, participantModel.ParticipantStatusApproved},
		{"private paid event stays pending", false, participantModel.ParticipantStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			ev := seedEvent(t, db, tt.isPublic, 150000)
			userID := uuid.New()
			pay := seedPendingPayment(t, db, userID, ev.EventID)

			got, err := ApplyGatewayOutcome(ctx, db, pay.PaymentTransactionID, model.OutcomeSuccess,
				map[string]interface{}{"transaction_status": "settlement"})
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if got.PaymentStatus != model.PaymentStatusSuccess {
				t.Errorf("payment status = %s, want SUCCESS", got.PaymentStatus)
			}
			if got.PaymentPaidAt == nil {
				t.Error("paid_at not set")
			}

			var p participantModel.ParticipantModel
			if err := db.First(&p, "participant_user_id = ? AND participant_event_id = ?", userID, ev.EventID).Error; err != nil {
				t.Fatalf("participant not created: %v", err)
			}
			if p.ParticipantStatus != tt.wantStatus {
				t.Errorf("participant status = %s, want %s", p.ParticipantStatus, tt.wantStatus)
			}
			if !p.ParticipantHasPaid {
				t.Error("participant has_paid = false, want true")
			}
		})
	}
}

func TestApplyGatewayOutcomeSuccessExistingParticipant(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ev := seedEvent(t, db, false, 150000)
	userID := uuid.New()

	// Participant jalur undangan, belum bayar.
	existing := participantModel.ParticipantModel{
		ParticipantUserID:  userID,
		ParticipantEventID: ev.EventID,
		ParticipantStatus:  participantModel.ParticipantStatusPending,
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	pay := seedPendingPayment(t, db, userID, ev.EventID)

	if _, err := ApplyGatewayOutcome(ctx, db, pay.PaymentTransactionID, model.OutcomeSuccess, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}

	var count int64
	db.Model(&participantModel.ParticipantModel{}).
		Where("participant_user_id = ? AND participant_event_id = ?", userID, ev.EventID).
		Count(&count)
	if count != 1 {
		t.Fatalf("participant count = %d, want 1", count)
	}

	var p participantModel.ParticipantModel
	db.First(&p, "participant_id = ?", existing.ParticipantID)
	if !p.ParticipantHasPaid {
		t.Error("has_paid not flipped on existing participant")
	}
	if p.ParticipantStatus != participantModel.ParticipantStatusPending {
		t.Errorf("status changed to %s, should stay PENDING", p.ParticipantStatus)
	}
}

func TestApplyGatewayOutcomeIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ev := seedEvent(t, db, true, 150000)
	userID := uuid.New()
	pay := seedPendingPayment(t, db, userID, ev.EventID)

	if _, err := ApplyGatewayOutcome(ctx, db, pay.PaymentTransactionID, model.OutcomeSuccess, nil); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	// Gateway kirim ulang callback yang sama.
	got, err := ApplyGatewayOutcome(ctx, db, pay.PaymentTransactionID, model.OutcomeSuccess, nil)
	if !errors.Is(err, ErrAlreadyFinal) {
		t.Fatalf("second apply err = %v, want ErrAlreadyFinal", err)
	}
	if got == nil || got.PaymentStatus != model.PaymentStatusSuccess {
		t.Fatal("second apply should still return the payment")
	}

	var count int64
	db.Model(&participantModel.ParticipantModel{}).
		Where("participant_user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Fatalf("participant count = %d after duplicate callback, want 1", count)
	}
}

func TestApplyGatewayOutcomeFailAndCancel(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		outcome    string
		wantStatus string
	}{
		{"fail", model.OutcomeFail, model.PaymentStatusFailed},
		{"cancel", model.OutcomeCancel, model.PaymentStatusCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			ev := seedEvent(t, db, true, 150000)
			userID := uuid.New()
			pay := seedPendingPayment(t, db, userID, ev.EventID)

			got, err := ApplyGatewayOutcome(ctx, db, pay.PaymentTransactionID, tt.outcome, nil)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if got.PaymentStatus != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.PaymentStatus, tt.wantStatus)
			}

			// Gagal/batal tidak boleh memunculkan participant.
			var count int64
			db.Model(&participantModel.ParticipantModel{}).
				Where("participant_user_id = ?", userID).Count(&count)
			if count != 0 {
				t.Errorf("participant count = %d, want 0", count)
			}
		})
	}
}

func TestApplyGatewayOutcomeUnknownTransaction(t *testing.T) {
	db := newTestDB(t)
	_, err := ApplyGatewayOutcome(context.Background(), db, "EVT-0-missing", model.OutcomeSuccess, nil)
	if code := fiberStatus(t, err); code != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

/* =========================================================
   Verify (pull path)
========================================================= */

type fakeGateway struct {
	outcome   string
	payload   map[string]interface{}
	statusErr error
	calls     int
}

func (f *fakeGateway) CreateCheckout(order CheckoutOrder) (*CheckoutResult, error) {
	return &CheckoutResult{Token: "tok", CheckoutURL: "https://app.sandbox.midtrans.com/snap/v3/" + order.TransactionID}, nil
}

func (f *fakeGateway) CheckStatus(transactionID string) (string, map[string]interface{}, error) {
	f.calls++
	return f.outcome, f.payload, f.statusErr
}

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("applies gateway outcome", func(t *testing.T) {
		db := newTestDB(t)
		ev := seedEvent(t, db, true, 150000)
		userID := uuid.New()
		pay := seedPendingPayment(t, db, userID, ev.EventID)

		gw := &fakeGateway{outcome: model.OutcomeSuccess}
		got, err := VerifyPayment(ctx, db, gw, pay.PaymentTransactionID, userID.String(), "USER")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if got.PaymentStatus != model.PaymentStatusSuccess {
			t.Errorf("status = %s, want SUCCESS", got.PaymentStatus)
		}
	})

	t.Run("skips gateway when already final", func(t *testing.T) {
		db := newTestDB(t)
		ev := seedEvent(t, db, true, 150000)
		userID := uuid.New()
		pay := seedPendingPayment(t, db, userID, ev.EventID)
		if _, err := ApplyGatewayOutcome(ctx, db, pay.PaymentTransactionID, model.OutcomeFail, nil); err != nil {
			t.Fatalf("apply: %v", err)
		}

		gw := &fakeGateway{outcome: model.OutcomeSuccess}
		got, err := VerifyPayment(ctx, db, gw, pay.PaymentTransactionID, userID.String(), "USER")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if gw.calls != 0 {
			t.Errorf("gateway called %d times for final payment, want 0", gw.calls)
		}
		if got.PaymentStatus != model.PaymentStatusFailed {
			t.Errorf("status = %s, want FAILED", got.PaymentStatus)
		}
	})

	t.Run("still pending at gateway", func(t *testing.T) {
		db := newTestDB(t)
		ev := seedEvent(t, db, true, 150000)
		userID := uuid.New()
		pay := seedPendingPayment(t, db, userID, ev.EventID)

		gw := &fakeGateway{outcome: ""}
		got, err := VerifyPayment(ctx, db, gw, pay.PaymentTransactionID, userID.String(), "USER")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if got.PaymentStatus != model.PaymentStatusPending {
			t.Errorf("status = %s, want PENDING", got.PaymentStatus)
		}
	})

	t.Run("rejects other users", func(t *testing.T) {
		db := newTestDB(t)
		ev := seedEvent(t, db, true, 150000)
		pay := seedPendingPayment(t, db, uuid.New(), ev.EventID)

		gw := &fakeGateway{}
		_, err := VerifyPayment(ctx, db, gw, pay.PaymentTransactionID, uuid.New().String(), "USER")
		if code := fiberStatus(t, err); code != fiber.StatusForbidden {
			t.Errorf("status = %d, want 403", code)
		}
	})

	t.Run("admin can verify any payment", func(t *testing.T) {
		db := newTestDB(t)
		ev := seedEvent(t, db, true, 150000)
		pay := seedPendingPayment(t, db, uuid.New(), ev.EventID)

		gw := &fakeGateway{outcome: model.OutcomeCancel}
		got, err := VerifyPayment(ctx, db, gw, pay.PaymentTransactionID, uuid.New().String(), "ADMIN")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if got.PaymentStatus != model.PaymentStatusCanceled {
			t.Errorf("status = %s, want CANCELED", got.PaymentStatus)
		}
	})
}
