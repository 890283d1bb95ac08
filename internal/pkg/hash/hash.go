package hash

// Hash produces and checks hex digests.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}
