// Package ident generates the identifiers that tie analytics events together:
// a numeric session id regenerated for every session and a device id that the
// host is expected to persist between visits.
//
// # Usage
//
//	sessionID := ident.NewSessionID() // e.g. "4839201748291034"
//	deviceID := ident.NewDeviceID()   // random UUIDv4 string
//
// Session ids are always 16 decimal digits. Both generators read from
// crypto/rand; they panic only if the system random source fails, matching
// the behaviour of github.com/google/uuid.
package ident
