// Package s3 stores blobs in an S3-compatible bucket such as Cloudflare R2
// or MinIO.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/metrics"
	"github.com/vytor/skillswap/internal/storage"
)

type Config struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicURL is the base URL objects are served from. Defaults to
	// <Endpoint>/<Bucket>.
	PublicURL string
}

// Store is a storage.BlobStore backed by an S3 bucket.
type Store struct {
	uploader  *s3manager.Uploader
	bucket    string
	publicURL string
}

var _ storage.BlobStore = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(region),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &Store{
		uploader:  s3manager.NewUploader(sess),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

func (s *Store) Upload(ctx context.Context, path, contentType string, body io.Reader) (err error) {
	log := logger.FromContext(ctx).WithPrefix("s3").WithField("key", path)
	start := time.Now()
	defer func() { metrics.ObserveUpstream("s3", start, err) }()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(strings.TrimLeft(path, "/")),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	})
	if err != nil {
		log.Error("upload failed: %v", err)
		return fmt.Errorf("failed to upload to s3: %w", err)
	}
	log.Debug("uploaded in %v", time.Since(start))
	return nil
}

func (s *Store) PublicURL(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicURL + "/" + strings.Join(segments, "/")
}
