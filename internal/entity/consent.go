package entity

import "fmt"

// ConsentState is a visitor's stored analytics decision.
type ConsentState string

const (
	ConsentGranted ConsentState = "granted"
	ConsentDenied  ConsentState = "denied"
	ConsentUnknown ConsentState = "unknown"
)

// ParseConsentState accepts only the explicit decisions a visitor can store.
func ParseConsentState(s string) (ConsentState, error) {
	switch ConsentState(s) {
	case ConsentGranted, ConsentDenied:
		return ConsentState(s), nil
	default:
		return ConsentUnknown, fmt.Errorf("invalid consent state %q", s)
	}
}
