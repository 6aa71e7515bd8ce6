package ident

import (
	"crypto/rand"
	"math/big"
	"regexp"

	"github.com/google/uuid"
)

var (
	minSessionID   = big.NewInt(1_000_000_000_000_000)
	sessionIDSpan  = big.NewInt(9_000_000_000_000_000)
	sessionPattern = regexp.MustCompile(`^[1-9][0-9]{15}$`)
)

// NewSessionID returns a random 16-digit decimal session identifier.
func NewSessionID() string {
	n, err := rand.Int(rand.Reader, sessionIDSpan)
	if err != nil {
		panic("ident: random source failed: " + err.Error())
	}
	return n.Add(n, minSessionID).String()
}

// NewDeviceID returns a random device identifier.
func NewDeviceID() string {
	return uuid.NewString()
}

// IsSessionID reports whether s has the shape produced by NewSessionID.
func IsSessionID(s string) bool {
	return sessionPattern.MatchString(s)
}

// IsDeviceID reports whether s parses as a UUID.
func IsDeviceID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
