package config

import (
	"os"
	"strings"
)

// UseLocalEmulator switches every hosted backend (MySQL, Redis, object
// storage) to local emulator defaults. Used for local development and CI.
//
// Set via env:
// - LOCAL_EMULATOR=true
func UseLocalEmulator() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("LOCAL_EMULATOR")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// StrictReceiptImmutability rejects any edit to a Received purchase,
// including price / received-quantity corrections that are normally allowed.
//
// Set via env:
// - STRICT_RECEIPT_IMMUTABLE=true
func StrictReceiptImmutability() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_RECEIPT_IMMUTABLE")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
