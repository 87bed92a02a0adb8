// Package daily picks the shared puzzle of the day.
//
// Every server with the same salt and answer list hands out the same
// word for a given UTC date.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using
// HMAC(salt, YYYY-MM-DD) % n. It returns 0 when n <= 0.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes give an even enough spread for small lists
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}

// Epoch is the date of puzzle number 1.
var Epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Number returns the public puzzle number for date: days since Epoch,
// counting from 1. It says nothing about which word was picked.
func Number(date time.Time) int {
	d, _ := time.Parse("2006-01-02", DateKey(date))
	return int(d.Sub(Epoch).Hours()/24) + 1
}

// Answer returns the puzzle word for date. list must not be empty.
func Answer(date time.Time, salt string, list []string) string {
	return list[WordIndex(date, salt, len(list))]
}
