// Package upload implements the media upload gate: shared validation and
// key generation in front of an S3-compatible bucket, with proxy and
// presigned write strategies and post-upload verification.
package upload

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/hayattan/media-gateway/internal/objectstore"
)

// ErrPublicURLUnset reports a missing public base URL. The object would
// be stored but unreachable, so this is a configuration fault.
var ErrPublicURLUnset = errors.New("public base url is not configured")

// cacheControl marks stored media immutable; keys are never reused.
const cacheControl = "public, max-age=31536000, immutable"

// Variant selects the presign policy for direct uploads.
type Variant int

const (
	// VariantStandard is the normal direct-upload flow, 60 second URLs.
	VariantStandard Variant = iota
	// VariantLarge is the large-file flow, 300 second URLs.
	VariantLarge
)

// TTL returns the signed URL lifetime for the variant.
func (v Variant) TTL() time.Duration {
	if v == VariantLarge {
		return 300 * time.Second
	}

	return 60 * time.Second
}

// ObjectStore is the storage surface the gate needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, opts objectstore.PutOptions) error
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	Head(ctx context.Context, key string) (*objectstore.ObjectInfo, error)
}

// Request describes one upload attempt. Body is set in proxy mode only.
type Request struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredObject is the result of a proxy upload.
type StoredObject struct {
	Key string
	URL string
}

// PresignedUpload is the result of a presign request. The caller
// performs the PUT against UploadURL and owns retry on failure.
type PresignedUpload struct {
	Key       string
	UploadURL string
	PublicURL string
	ExpiresIn time.Duration
}

// Verification reports ground truth about an object in the store.
// Verified is false both when the object is missing and when the probe
// itself failed; Err distinguishes the two.
type Verification struct {
	Verified     bool
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
	Err          string
}

// Gate validates, stores, presigns, and verifies media objects.
type Gate struct {
	store         ObjectStore
	keys          *KeyGenerator
	publicBaseURL string
}

// NewGate creates an upload gate. publicBaseURL may be empty, in which
// case every upload fails with ErrPublicURLUnset rather than minting
// unreachable objects.
func NewGate(store ObjectStore, keys *KeyGenerator, publicBaseURL string) *Gate {
	return &Gate{
		store:         store,
		keys:          keys,
		publicBaseURL: publicBaseURL,
	}
}

// Upload runs the proxy path: validate, mint a key, write the object
// with an immutable cache directive, and return its public URL.
func (g *Gate) Upload(ctx context.Context, req Request) (*StoredObject, error) {
	if err := Validate(req.ContentType, req.Size); err != nil {
		return nil, err
	}

	if g.publicBaseURL == "" {
		return nil, ErrPublicURLUnset
	}

	key := g.keys.NewKey(req.FileName)

	err := g.store.Put(ctx, key, req.Body, objectstore.PutOptions{
		ContentType:   req.ContentType,
		CacheControl:  cacheControl,
		ContentLength: req.Size,
	})
	if err != nil {
		return nil, err
	}

	return &StoredObject{Key: key, URL: g.publicURL(key)}, nil
}

// Presign runs the direct-upload path: same validation as Upload, but
// the file never passes through the server.
func (g *Gate) Presign(ctx context.Context, req Request, variant Variant) (*PresignedUpload, error) {
	if err := Validate(req.ContentType, req.Size); err != nil {
		return nil, err
	}

	if g.publicBaseURL == "" {
		return nil, ErrPublicURLUnset
	}

	key := g.keys.NewKey(req.FileName)
	ttl := variant.TTL()

	uploadURL, err := g.store.PresignPut(ctx, key, req.ContentType, ttl)
	if err != nil {
		return nil, err
	}

	return &PresignedUpload{
		Key:       key,
		UploadURL: uploadURL,
		PublicURL: g.publicURL(key),
		ExpiresIn: ttl,
	}, nil
}

// Verify probes the store for key. It exists because a presigned
// client-side PUT can fail silently; the metadata probe is the only way
// the server learns whether the object actually landed.
func (g *Gate) Verify(ctx context.Context, key string) *Verification {
	info, err := g.store.Head(ctx, key)
	if err != nil {
		v := &Verification{Err: err.Error()}
		if errors.Is(err, objectstore.ErrNotFound) {
			v.Err = "object not found"
		}

		return v
	}

	return &Verification{
		Verified:     true,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
		ETag:         info.ETag,
	}
}

func (g *Gate) publicURL(key string) string {
	return g.publicBaseURL + "/" + key
}
