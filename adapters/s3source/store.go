// Package s3source reads the samples document from an S3-compatible bucket
// (AWS S3 or MinIO) and writes dashboard exports back to one.
package s3source

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"biodash/adapters/jsondoc"
	"biodash/domain/dataset"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds construction parameters. Credentials come from the default
// AWS chain (AWS_ACCESS_KEY_ID, shared config, instance role).
type Config struct {
	Region    string
	Bucket    string
	Key       string // object holding samples.json
	Endpoint  string // optional; set for MinIO or other S3-compatible stores
	PathStyle bool
}

// Store is a single-bucket S3 client.
type Store struct {
	client *s3.Client
	bucket string
	key    string
}

// New creates a store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *s3.Client, bucket, key string) *Store {
	return &Store{client: client, bucket: bucket, key: key}
}

func (s *Store) Name() string     { return "s3" }
func (s *Store) Location() string { return "s3://" + s.bucket + "/" + s.key }

// Load fetches and decodes the samples object
func (s *Store) Load(ctx context.Context) (*dataset.Dataset, error) {
	start := time.Now()
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.Location(), err)
	}
	defer out.Body.Close()

	ds, err := jsondoc.Decode(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Location(), err)
	}
	log.Printf("[S3Source] Fetched %d subjects from %s in %s", ds.Len(), s.Location(), time.Since(start).Round(time.Millisecond))
	return ds, nil
}

// Target returns an export target writing under prefix in the same bucket.
func (s *Store) Target(prefix string) *Target {
	return &Target{store: s, prefix: strings.Trim(prefix, "/")}
}

// Target implements ports.ExportTarget on top of PutObject.
type Target struct {
	store  *Store
	prefix string
}

func (t *Target) objectKey(key string) string {
	if t.prefix == "" {
		return key
	}
	return path.Join(t.prefix, key)
}

// Put uploads one exported file. Existing objects are overwritten.
func (t *Target) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	objectKey := t.objectKey(key)
	input := &s3.PutObjectInput{Bucket: &t.store.bucket, Key: &objectKey, Body: r}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := t.store.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put %s: %w", objectKey, err)
	}
	return nil
}

func (t *Target) Describe() string {
	if t.prefix == "" {
		return "s3://" + t.store.bucket
	}
	return "s3://" + t.store.bucket + "/" + t.prefix
}
