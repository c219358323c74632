// Package archive copies exported PDFs to S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const contentType = "application/pdf"

// Config locates the bucket.
type Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Prefix    string

	// Region skips the bucket location lookup when set.
	Region string
}

// Uploader stores PDFs under <prefix><uuid>.pdf. A nil *Uploader is valid
// and stores nothing.
type Uploader struct {
	mc     *minio.Client
	bucket string
	prefix string
	log    *slog.Logger
	newKey func() string
}

// New connects an Uploader. No request is made until the first upload.
func New(cfg Config, log *slog.Logger) (*Uploader, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("archive: endpoint and bucket are required")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Uploader{
		mc:     mc,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		log:    log,
		newKey: uuid.NewString,
	}, nil
}

// Put uploads pdf and returns its object key.
func (u *Uploader) Put(ctx context.Context, pdf []byte) (string, error) {
	if u == nil {
		return "", nil
	}
	key := u.prefix + u.newKey() + ".pdf"
	_, err := u.mc.PutObject(ctx, u.bucket, key, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("archive: put %s/%s: %w", u.bucket, key, err)
	}
	return key, nil
}

// Store uploads pdf and logs the outcome. Failures never reach the caller.
func (u *Uploader) Store(ctx context.Context, pdf []byte) {
	if u == nil {
		return
	}
	key, err := u.Put(ctx, pdf)
	if err != nil {
		u.log.WarnContext(ctx, "archiving export failed", slog.Any("error", err))
		return
	}
	u.log.InfoContext(ctx, "archived export",
		slog.String("bucket", u.bucket),
		slog.String("key", key),
		slog.Int("bytes", len(pdf)),
	)
}
