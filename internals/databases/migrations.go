package database

import "gorm.io/gorm"

// Partial unique index tidak bisa diekspresikan lewat tag GORM, jadi
// DDL-nya dipegang di sini dan dijalankan saat bootstrap (idempotent).
// Index ini penjaga terakhir invariant "maks. satu baris hidup per
// (user, event)" saat dua request balapan: check-then-insert dalam
// transaksi saja tidak cukup di READ COMMITTED.
var partialUniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_participants_user_event_live
		ON participants (participant_user_id, participant_event_id)
		WHERE participant_deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_invitations_participant_event_live
		ON invitations (invitation_participant_id, invitation_event_id)
		WHERE invitation_deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_reviews_user_event_live
		ON reviews (review_user_id, review_event_id)
		WHERE review_deleted_at IS NULL`,
}

// ApplyIndexes menjalankan DDL index partial. Dipanggil setelah
// ConnectDB di main, dan oleh test setup supaya skema test identik.
func ApplyIndexes(db *gorm.DB) error {
	for _, ddl := range partialUniqueIndexes {
		if err := db.Exec(ddl).Error; err != nil {
			return err
		}
	}
	return nil
}
