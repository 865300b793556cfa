package game

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const (
	codeLen      = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// codeAttempts bounds collision retries before falling back to a
	// time-derived code.
	codeAttempts = 10
)

// newRoomCode generates a short uppercase room code that taken reports as
// unused. After codeAttempts collisions it falls back to a code derived from
// the current time, which cannot collide with itself.
func newRoomCode(taken func(string) bool) string {
	for i := 0; i < codeAttempts; i++ {
		code := randomCode()
		if !taken(code) {
			return code
		}
	}
	return timeCode()
}

func randomCode() string {
	var b [codeLen]byte
	_, _ = rand.Read(b[:])
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b[:])
}

func timeCode() string {
	s := strings.ToUpper(strconv.FormatInt(time.Now().UnixNano(), 36))
	if len(s) > codeLen {
		s = s[len(s)-codeLen:]
	}
	return s
}

// normalizeRoomCode case-normalizes a client-supplied code.
func normalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
