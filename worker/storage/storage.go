package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Uploader stores an object and returns the URL it is publicly served from.
// Uploading to an existing key overwrites it.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type Config struct {
	Backend   string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	PublicURL string
}

// New builds the uploader selected by cfg.Backend ("minio" or "s3").
func New(ctx context.Context, cfg Config) (Uploader, error) {
	switch cfg.Backend {
	case "", "minio":
		return NewMinioUploader(ctx, cfg)
	case "s3":
		return NewS3Uploader(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// ObjectKey derives the object key for a file: its display name with the
// extension stripped, under an optional prefix.
func ObjectKey(prefix, fileName string) string {
	base := strings.TrimSuffix(fileName, path.Ext(fileName))
	if prefix == "" {
		return base
	}
	return strings.TrimSuffix(prefix, "/") + "/" + base
}

func publicObjectURL(base, bucket, key string) string {
	u := &url.URL{Path: "/" + bucket + "/" + key}
	return strings.TrimSuffix(base, "/") + u.EscapedPath()
}
