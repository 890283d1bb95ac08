// Package hash turns short secrets into fixed hex digests.
//
// Verification codes are stored as a plain SHA-256 hex digest so the stored
// value is reproducible from the code alone. Keyed digests (HMAC) are used
// where the input is low-entropy personal data that should not appear in
// shared infrastructure, such as rate-limit keys in redis.
package hash
