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
	"eventku_backend/internals/features/invitations/model"
	participantModel "eventku_backend/internals/features/participants/model"
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
		&model.InvitationModel{},
		&reviewModel.ReviewModel{},
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
		UserName:     "Sari",
		UserEmail:    uuid.New().String() + "@example.com",
		UserPassword: "-",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &u
}

func seedEvent(t *testing.T, db *gorm.DB, organizerID uuid.UUID) *eventModel.EventModel {
	t.Helper()
	ev := eventModel.EventModel{
		EventOrganizerID: organizerID,
		EventTitle:       "Gathering Komunitas",
		EventType:        eventModel.EventTypeOnline,
		EventDate:        time.Now().Add(24 * time.Hour),
		EventVenueOrLink: "https://meet.example.com/x",
		EventIsPublic:    false,
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

/* =========================================================
   Create
========================================================= */

func TestCreateInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("organizer invites", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		invitee := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID)

		inv, err := CreateInvitation(ctx, db, organizer.UserID, invitee.UserID, ev.EventID)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if inv.InvitationStatus != model.InvitationStatusPending {
			t.Errorf("status = %s, want PENDING", inv.InvitationStatus)
		}
		if inv.InvitationHasRead {
			t.Error("new invitation should be unread")
		}
	})

	t.Run("approved participant invites", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		inviter := seedUser(t, db)
		invitee := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID)

		db.Create(&participantModel.ParticipantModel{
			ParticipantUserID:  inviter.UserID,
			ParticipantEventID: ev.EventID,
			ParticipantStatus:  participantModel.ParticipantStatusApproved,
		})

		if _, err := CreateInvitation(ctx, db, inviter.UserID, invitee.UserID, ev.EventID); err != nil {
			t.Fatalf("create: %v", err)
		}
	})

	t.Run("pending participant cannot invite", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		inviter := seedUser(t, db)
		invitee := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID)

		db.Create(&participantModel.ParticipantModel{
			ParticipantUserID:  inviter.UserID,
			ParticipantEventID: ev.EventID,
			ParticipantStatus:  participantModel.ParticipantStatusPending,
		})

		_, err := CreateInvitation(ctx, db, inviter.UserID, invitee.UserID, ev.EventID)
		if code := fiberStatus(t, err); code != fiber.StatusForbidden {
			t.Errorf("status = %d, want 403", code)
		}
	})

	t.Run("unknown inviter", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		invitee := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID)

		// ID dari token yang user-nya sudah tidak ada di DB.
		_, err := CreateInvitation(ctx, db, uuid.New(), invitee.UserID, ev.EventID)
		if code := fiberStatus(t, err); code != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", code)
		}
	})

	t.Run("outsider cannot invite", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		outsider := seedUser(t, db)
		invitee := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID)

		_, err := CreateInvitation(ctx, db, outsider.UserID, invitee.UserID, ev.EventID)
		if code := fiberStatus(t, err); code != fiber.StatusForbidden {
			t.Errorf("status = %d, want 403", code)
		}
	})

	t.Run("self invite rejected", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID)

		_, err := CreateInvitation(ctx, db, organizer.UserID, organizer.UserID, ev.EventID)
		if code := fiberStatus(t, err); code != fiber.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	})

	t.Run("duplicate invitation conflicts", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		invitee := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID)

		if _, err := CreateInvitation(ctx, db, organizer.UserID, invitee.UserID, ev.EventID); err != nil {
			t.Fatalf("first create: %v", err)
		}
		_, err := CreateInvitation(ctx, db, organizer.UserID, invitee.UserID, ev.EventID)
		if code := fiberStatus(t, err); code != fiber.StatusConflict {
			t.Errorf("status = %d, want 409", code)
		}
	})

	t.Run("invitee already participant conflicts", func(t *testing.T) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		invitee := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID)

		db.Create(&participantModel.ParticipantModel{
			ParticipantUserID:  invitee.UserID,
			ParticipantEventID: ev.EventID,
			ParticipantStatus:  participantModel.ParticipantStatusApproved,
		})

		_, err := CreateInvitation(ctx, db, organizer.UserID, invitee.UserID, ev.EventID)
		if code := fiberStatus(t, err); code != fiber.StatusConflict {
			t.Errorf("status = %d, want 409", code)
		}
	})
}

/* =========================================================
   Resolve
========================================================= */

func TestResolveInvitation(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*gorm.DB, *userModel.UserModel, *model.InvitationModel) {
		db := newTestDB(t)
		organizer := seedUser(t, db)
		invitee := seedUser(t, db)
		ev := seedEvent(t, db, organizer.UserID)
		inv, err := CreateInvitation(ctx, db, organizer.UserID, invitee.UserID, ev.EventID)
		if err != nil {
			t.Fatalf("seed invitation: %v", err)
		}
		return db, invitee, inv
	}

	t.Run("accept creates pending participant", func(t *testing.T) {
		db, invitee, inv := setup(t)

		got, err := ResolveInvitation(ctx, db, inv.InvitationID, invitee.UserID, model.InvitationStatusAccepted)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got.InvitationStatus != model.InvitationStatusAccepted {
			t.Errorf("status = %s, want ACCEPTED", got.InvitationStatus)
		}
		if !got.InvitationHasRead {
			t.Error("resolve should mark invitation as read")
		}

		var p participantModel.ParticipantModel
		if err := db.First(&p, "participant_user_id = ? AND participant_event_id = ?",
			invitee.UserID, inv.InvitationEventID).Error; err != nil {
			t.Fatalf("participant not created: %v", err)
		}
		if p.ParticipantStatus != participantModel.ParticipantStatusPending {
			t.Errorf("participant status = %s, want PENDING", p.ParticipantStatus)
		}
		if p.ParticipantInviteID == nil || *p.ParticipantInviteID != inv.InvitationID {
			t.Error("participant missing back-reference to invitation")
		}
	})

	t.Run("reject leaves no participant", func(t *testing.T) {
		db, invitee, inv := setup(t)

		got, err := ResolveInvitation(ctx, db, inv.InvitationID, invitee.UserID, model.InvitationStatusRejected)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got.InvitationStatus != model.InvitationStatusRejected {
			t.Errorf("status = %s, want REJECTED", got.InvitationStatus)
		}

		var count int64
		db.Model(&participantModel.ParticipantModel{}).
			Where("participant_user_id = ?", invitee.UserID).Count(&count)
		if count != 0 {
			t.Errorf("participant count = %d, want 0", count)
		}
	})

	t.Run("terminal invitation conflicts", func(t *testing.T) {
		db, invitee, inv := setup(t)

		if _, err := ResolveInvitation(ctx, db, inv.InvitationID, invitee.UserID, model.InvitationStatusRejected); err != nil {
			t.Fatalf("first resolve: %v", err)
		}
		_, err := ResolveInvitation(ctx, db, inv.InvitationID, invitee.UserID, model.InvitationStatusAccepted)
		if code := fiberStatus(t, err); code != fiber.StatusConflict {
			t.Errorf("status = %d, want 409", code)
		}
	})

	t.Run("accept with existing participant rolls back", func(t *testing.T) {
		db, invitee, inv := setup(t)

		// Invitee keburu join lewat jalur lain sebelum meresolve.
		db.Create(&participantModel.ParticipantModel{
			ParticipantUserID:  invitee.UserID,
			ParticipantEventID: inv.InvitationEventID,
			ParticipantStatus:  participantModel.ParticipantStatusApproved,
		})

		_, err := ResolveInvitation(ctx, db, inv.InvitationID, invitee.UserID, model.InvitationStatusAccepted)
		if code := fiberStatus(t, err); code != fiber.StatusConflict {
			t.Fatalf("status = %d, want 409", code)
		}

		// Status invitation ikut batal bersama insert yang gagal.
		var fresh model.InvitationModel
		db.First(&fresh, "invitation_id = ?", inv.InvitationID)
		if fresh.InvitationStatus != model.InvitationStatusPending {
			t.Errorf("invitation status = %s after rollback, want PENDING", fresh.InvitationStatus)
		}
	})

	t.Run("only invitee can resolve", func(t *testing.T) {
		db, _, inv := setup(t)
		stranger := seedUser(t, db)

		_, err := ResolveInvitation(ctx, db, inv.InvitationID, stranger.UserID, model.InvitationStatusAccepted)
		if code := fiberStatus(t, err); code != fiber.StatusForbidden {
			t.Errorf("status = %d, want 403", code)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		db, invitee, inv := setup(t)

		_, err := ResolveInvitation(ctx, db, inv.InvitationID, invitee.UserID, "MAYBE")
		if code := fiberStatus(t, err); code != fiber.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	})

	t.Run("unknown invitation", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db)

		_, err := ResolveInvitation(ctx, db, uuid.New(), user.UserID, model.InvitationStatusAccepted)
		if code := fiberStatus(t, err); code != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", code)
		}
	})
}
