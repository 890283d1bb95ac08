package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SHA256 is an unkeyed lowercase hex SHA-256 digest (64 characters).
type SHA256 struct{}

func NewSHA256() *SHA256 { return &SHA256{} }

func (*SHA256) Hash(str string) ([]byte, error) {
	return hexDigest(sha256.Sum256([]byte(str))), nil
}

// Verify compares in constant time.
func (s *SHA256) Verify(hashed, str string) bool {
	sum := hexDigest(sha256.Sum256([]byte(str)))
	return subtle.ConstantTimeCompare([]byte(hashed), sum) == 1
}

func hexDigest(sum [sha256.Size]byte) []byte {
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}
