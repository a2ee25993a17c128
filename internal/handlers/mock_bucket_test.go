package handlers_test

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/hayattan/media-gateway/internal/messaging"
	"github.com/hayattan/media-gateway/internal/objectstore"
)

var errMock = errors.New("mock error")

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

// fakeBucket is an in-memory test double for the object store.
type fakeBucket struct {
	objects    map[string]objectstore.ObjectInfo
	putErr     error
	presignErr error
	headErr    error
	lastKey    string
	lastOpts   objectstore.PutOptions
	lastTTL    time.Duration
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string]objectstore.ObjectInfo)}
}

func (f *fakeBucket) Put(_ context.Context, key string, body io.Reader, opts objectstore.PutOptions) error {
	if f.putErr != nil {
		return f.putErr
	}

	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}

	f.lastKey = key
	f.lastOpts = opts
	f.objects[key] = objectstore.ObjectInfo{
		Key:          key,
		Size:         opts.ContentLength,
		ContentType:  opts.ContentType,
		LastModified: time.Now(),
		ETag:         "etag-" + key,
	}

	return nil
}

func (f *fakeBucket) PresignPut(_ context.Context, key, _ string, expires time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}

	f.lastKey = key
	f.lastTTL = expires

	return "https://bucket.example.com/" + key + "?X-Amz-Signature=abc", nil
}

func (f *fakeBucket) Head(_ context.Context, key string) (*objectstore.ObjectInfo, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}

	info, ok := f.objects[key]
	if !ok {
		return nil, objectstore.ErrNotFound
	}

	return &info, nil
}
