package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"alcyxob/portfolio-api/internal/config"
	"alcyxob/portfolio-api/internal/domain"
)

// s3Storage implements MediaStore using an S3-compatible backend.
// The object key doubles as the remote file id.
type s3Storage struct {
	client        *s3.Client
	bucketName    string
	publicBaseURL string
}

// NewS3Store creates a new S3 storage service instance.
func NewS3Store(ctx context.Context, cfg config.S3Config) (MediaStore, error) {
	opts := []func(*awsCfg.LoadOptions) error{
		awsCfg.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS SDK config for S3: %w", err)
	}

	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			// S3-compatible services (MinIO, Spaces) need the custom endpoint and path-style addressing.
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
			// Many of them reject the flexible checksums the SDK adds by default.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = defaultPublicBaseURL(cfg)
	}

	slog.Info("S3 media store initialized",
		slog.String("endpoint", cfg.Endpoint), slog.String("bucket", cfg.BucketName))

	return &s3Storage{
		client:        s3Client,
		bucketName:    cfg.BucketName,
		publicBaseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *s3Storage) Name() string { return config.ProviderS3 }

// Store puts the object under <folder>/<kind>/<uuid>.<ext>. Images are bounded
// to ImageLimit before upload when the destination asks for it.
func (s *s3Storage) Store(ctx context.Context, obj Object, dest Destination) (*StoredFile, error) {
	if err := dest.Constraints.Check(obj); err != nil {
		return nil, err
	}

	data := obj.Data
	if dest.Kind == domain.KindImage && dest.Constraints.LimitImageSize {
		limited, err := LimitImage(data, obj.ContentType, ImageLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		data = limited
	}

	key := s.objectKey(obj, dest)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q into bucket %q: %w", key, s.bucketName, err)
	}

	return &StoredFile{URL: s.publicBaseURL + "/" + key, RemoteID: key}, nil
}

// Delete removes an object from the S3 bucket.
func (s *s3Storage) Delete(ctx context.Context, remoteID string, _ domain.ResourceKind) error {
	if remoteID == "" {
		return errors.New("empty object key")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(remoteID),
	})
	if err != nil {
		return fmt.Errorf("delete object %q from bucket %q: %w", remoteID, s.bucketName, err)
	}
	return nil
}

func (s *s3Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucketName)})
	return err
}

func (s *s3Storage) objectKey(obj Object, dest Destination) string {
	ext := Extension(obj.Name)
	if ext == "" {
		if m := mimetype.Lookup(obj.ContentType); m != nil {
			ext = strings.TrimPrefix(m.Extension(), ".")
		}
	}
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	return path.Join(dest.Folder, string(dest.Kind), name)
}

func defaultPublicBaseURL(cfg config.S3Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.BucketName
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.BucketName, cfg.Region)
}
