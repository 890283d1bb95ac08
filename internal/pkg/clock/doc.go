// Package clock hides the wall clock behind an interface.
//
// Expiry checks in the verification flow read time through Clocker so tests
// can pin "now" to any instant.
package clock
