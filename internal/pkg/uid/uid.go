// Package uid generates identifiers: snowflake numbers for change events and
// UUIDv7 strings for correlation and session ids.
package uid

// NumberID generates sortable 63-bit ids.
type NumberID interface {
	Generate() int64
}

// StringID generates opaque string ids.
type StringID interface {
	Generate() string
}
