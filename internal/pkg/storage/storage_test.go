package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	objects map[string]string
	closed  int
}

func (f *fakeStorage) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error) {
	v, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, ObjectInfo{}, ErrObjectNotFound
	}
	return io.NopCloser(strings.NewReader(v)), ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(v))}, nil
}

func (f *fakeStorage) StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	_, info, err := f.GetObject(ctx, bucket, key)
	return info, err
}

func (f *fakeStorage) Close() error { f.closed++; return nil }

func TestReadAll(t *testing.T) {
	ctx := context.Background()
	s := &fakeStorage{objects: map[string]string{"mail/otp.html": "<p>{{.Code}}</p>"}}

	data, err := ReadAll(ctx, s, "mail", "otp.html", 1024)
	require.NoError(t, err)
	assert.Equal(t, "<p>{{.Code}}</p>", string(data))

	_, err = ReadAll(ctx, s, "mail", "otp.html", 4)
	require.ErrorIs(t, err, ErrObjectTooLarge)

	_, err = ReadAll(ctx, s, "mail", "missing.html", 0)
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNewFromDriver_Unknown(t *testing.T) {
	_, err := NewFromDriver(context.Background(), "ftp", FactoryOptions{})
	require.ErrorIs(t, err, ErrUnknownDriver)
}

func TestMinIOError(t *testing.T) {
	assert.NotErrorIs(t, minioError(errors.New("boom")), ErrObjectNotFound)
}
