package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"alcyxob/portfolio-api/internal/config"
	"alcyxob/portfolio-api/internal/domain"
)

// ImageLimit bounds both sides of stored images. Larger images are scaled
// down with their aspect ratio preserved; smaller ones are never upscaled.
const ImageLimit = 1200

var (
	ErrInvalidFormat   = errors.New("file format not allowed")
	ErrPayloadTooLarge = errors.New("file exceeds the maximum allowed size")
)

// MediaStore defines the remote media host holding uploaded files.
type MediaStore interface {
	// Store uploads the object into the destination and returns a durable reference.
	Store(ctx context.Context, obj Object, dest Destination) (*StoredFile, error)

	// Delete removes a previously stored object.
	Delete(ctx context.Context, remoteID string, kind domain.ResourceKind) error

	// Ping reports whether the remote host is reachable with the configured credentials.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and the health report.
	Name() string
}

// Object is a file ready to be stored.
type Object struct {
	Name        string
	ContentType string
	Data        []byte
}

// Destination says where and how an object is stored.
type Destination struct {
	Folder      string
	Kind        domain.ResourceKind
	Constraints Constraints
}

// Constraints are checked by every backend before anything leaves the process.
type Constraints struct {
	AllowedMimeTypes []string
	AllowedFormats   []string // file extensions without the dot
	MaxBytes         int64
	LimitImageSize   bool
}

// StoredFile is what the remote host hands back.
type StoredFile struct {
	URL      string
	RemoteID string
}

// Check validates an object against the constraints.
func (c Constraints) Check(obj Object) error {
	if c.MaxBytes > 0 && int64(len(obj.Data)) > c.MaxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(obj.Data), c.MaxBytes)
	}
	if len(c.AllowedMimeTypes) > 0 && !slices.Contains(c.AllowedMimeTypes, strings.ToLower(obj.ContentType)) {
		return fmt.Errorf("%w: content type %q", ErrInvalidFormat, obj.ContentType)
	}
	if ext := Extension(obj.Name); ext != "" && len(c.AllowedFormats) > 0 && !slices.Contains(c.AllowedFormats, ext) {
		return fmt.Errorf("%w: extension %q", ErrInvalidFormat, ext)
	}
	return nil
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// NewMediaStore builds the backend selected by cfg.Media.Provider.
func NewMediaStore(ctx context.Context, cfg config.Config) (MediaStore, error) {
	switch cfg.Media.Provider {
	case config.ProviderCloudinary:
		return NewCloudinaryStore(cfg.Cloudinary)
	case config.ProviderS3:
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.Media.Provider)
	}
}
