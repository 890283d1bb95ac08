package config

import (
	"io"
	"time"
)

// DurationConfig reads integer keys scaled to a time unit.
type DurationConfig interface {
	GetMillisecond(key string) time.Duration
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
}

// Config is the read-only view over service configuration.
//
// Missing keys return the zero value; callers apply their own fallbacks.
type Config interface {
	io.Closer
	DurationConfig

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetFloat64(key string) float64
	GetUint16(key string) uint16

	// GetArray accepts either a YAML list or a "a,b,c" string.
	// Elements are trimmed and empty ones dropped.
	GetArray(key string) []string

	// GetMap parses "k:v,k:v" pairs.
	GetMap(key string) map[string]string
}
