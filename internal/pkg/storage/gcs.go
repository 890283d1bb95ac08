package storage

import (
	"context"
	"errors"
	"io"

	gcs "cloud.google.com/go/storage"
)

type GCS struct {
	client *gcs.Client
}

type GCSOptions struct {
	// Client is built by the caller so credentials and endpoints stay in app wiring.
	Client *gcs.Client
}

func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	client := opts.Client
	if client == nil {
		created, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		client = created
	}
	return &GCS{client: client}, nil
}

func (g *GCS) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error) {
	reader, err := g.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, ObjectInfo{}, gcsError(err)
	}

	attrs := reader.Attrs
	return reader, ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        attrs.Size,
		ContentType: attrs.ContentType,
		UpdatedAt:   attrs.LastModified,
	}, nil
}

func (g *GCS) StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	attrs, err := g.client.Bucket(bucket).Object(key).Attrs(ctx)
	if err != nil {
		return ObjectInfo{}, gcsError(err)
	}

	return ObjectInfo{
		Bucket:      attrs.Bucket,
		Key:         attrs.Name,
		Size:        attrs.Size,
		ETag:        attrs.Etag,
		ContentType: attrs.ContentType,
		Metadata:    attrs.Metadata,
		UpdatedAt:   attrs.Updated,
	}, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}

func gcsError(err error) error {
	if errors.Is(err, gcs.ErrObjectNotExist) || errors.Is(err, gcs.ErrBucketNotExist) {
		return errors.Join(ErrObjectNotFound, err)
	}
	return err
}
