package helper

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateTransactionID membuat order_id unik untuk payment gateway.
// Format: EVT-<unix>-<8 hex acak>, contoh: EVT-1735689600-9f3a01bc
func GenerateTransactionID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("EVT-%d-%s", time.Now().Unix(), hex.EncodeToString(b))
}

// IsDuplicateKeyError mendeteksi pelanggaran unique constraint dari driver
// (postgres 23505 atau pesan "duplicate"/"UNIQUE constraint" dari sqlite).
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
