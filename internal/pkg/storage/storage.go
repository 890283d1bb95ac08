package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when the bucket or key does not exist.
var ErrObjectNotFound = errors.New("storage: object not found")

// Storage is the read side of an object store.
type Storage interface {
	io.Closer

	// GetObject opens the object for reading. Callers close the reader.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error)
	// StatObject returns object metadata without reading its contents.
	StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error)
}

// ObjectInfo describes object metadata.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}

// ReadAll reads a whole object, refusing objects larger than limit bytes
// when limit is positive.
func ReadAll(ctx context.Context, s Storage, bucket, key string, limit int64) ([]byte, error) {
	rc, info, err := s.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if limit > 0 && info.Size > limit {
		return nil, ErrObjectTooLarge
	}

	var r io.Reader = rc
	if limit > 0 {
		r = io.LimitReader(rc, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, ErrObjectTooLarge
	}

	return data, nil
}

// ErrObjectTooLarge is returned by ReadAll when the object exceeds its limit.
var ErrObjectTooLarge = errors.New("storage: object too large")
