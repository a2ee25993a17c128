// Package objectstore wraps an S3-compatible bucket (Cloudflare R2 in
// production) behind the three operations the upload gate needs: write,
// presign-write, and metadata probe.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrNotFound is returned by Head when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Config holds object store connection settings.
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Timeout bounds every store call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout bounds object store calls when none is configured.
const DefaultTimeout = 30 * time.Second

// ObjectInfo is the metadata returned by a Head probe.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

// PutOptions carries per-object write settings.
type PutOptions struct {
	ContentType   string
	CacheControl  string
	ContentLength int64
}

// Client talks to a single bucket on an S3-compatible endpoint.
type Client struct {
	s3        *s3.Client
	presigner *s3.PresignClient
	bucket    string
	timeout   time.Duration
}

// New creates a client for the configured bucket. Credentials are
// static; TLS verification is left at the SDK default.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("objectstore: bucket name is required")
	}

	if cfg.Endpoint == "" {
		return nil, errors.New("objectstore: endpoint is required")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		s3:        client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		timeout:   timeout,
	}, nil
}

// Put writes an object under key with the given content type and cache
// directive.
func (c *Client) Put(ctx context.Context, key string, body io.Reader, opts PutOptions) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(opts.ContentType),
		CacheControl: aws.String(opts.CacheControl),
	}

	if opts.ContentLength > 0 {
		input.ContentLength = aws.Int64(opts.ContentLength)
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}

	return nil
}

// PresignPut returns a time-boxed signed URL permitting a single direct
// PUT of key without exposing credentials to the client.
func (c *Client) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign put %q: %w", key, err)
	}

	return req.URL, nil
}

// Head probes object metadata by key. Returns ErrNotFound when the
// object does not exist; any other failure is an infrastructure error.
func (c *Client) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	out, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("head object %q: %w", key, err)
	}

	info := &ObjectInfo{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
	}

	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}

	return info, nil
}

// Ping checks bucket reachability, for health reporting.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})

	return err
}

func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}
