package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/JaimeStill/compliance-reports/pkg/lifecycle"
)

// s3Store keeps objects in one bucket of an S3-compatible service.
type s3Store struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
	logger    *slog.Logger
}

func newS3(cfg *Config, logger *slog.Logger) (*s3Store, error) {
	client, err := minio.New(cfg.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		Secure: cfg.S3.UseSSL,
		Region: cfg.S3.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	public := cfg.S3.PublicURL
	if public == "" {
		public = client.EndpointURL().String()
	}

	return &s3Store{
		client:    client,
		bucket:    cfg.S3.Bucket,
		region:    cfg.S3.Region,
		publicURL: strings.TrimSuffix(public, "/"),
		logger:    logger.With("system", "storage", "backend", BackendS3),
	}, nil
}

// Start ensures the bucket exists before the service reports ready.
func (s *s3Store) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting storage system", "bucket", s.bucket, "endpoint", s.client.EndpointURL().Host)

	lc.OnStartup(func() {
		ctx := lc.Context()

		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.logger.Error("bucket check failed", "error", err)
			return
		}
		if exists {
			s.logger.Info("bucket available")
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			s.logger.Error("bucket creation failed", "error", err)
			return
		}
		s.logger.Info("bucket created")
	})

	return nil
}

func (s *s3Store) Store(ctx context.Context, key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentType(key),
	})
	if err != nil {
		return mapS3Error("put object", err)
	}
	return nil
}

func (s *s3Store) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapS3Error("get object", err)
	}
	defer obj.Close()

	// GetObject is lazy; a missing key surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapS3Error("read object", err)
	}
	return data, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}

	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		if errors.Is(mapS3Error("remove object", err), ErrNotFound) {
			return nil
		}
		return mapS3Error("remove object", err)
	}
	return nil
}

func (s *s3Store) Validate(ctx context.Context, key string) (bool, error) {
	if err := validKey(key); err != nil {
		return false, err
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		mapped := mapS3Error("stat object", err)
		if errors.Is(mapped, ErrNotFound) {
			return false, nil
		}
		return false, mapped
	}
	return true, nil
}

func (s *s3Store) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}

func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

// mapS3Error separates definite answers from the service (missing key,
// access denied) from transport and server failures.
func mapS3Error(op string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket":
		return ErrNotFound
	case resp.Code == "AccessDenied" || resp.StatusCode == http.StatusForbidden:
		return ErrPermissionDenied
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	}
}
