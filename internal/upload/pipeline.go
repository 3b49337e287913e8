// Package upload validates incoming files, routes them to a folder and
// resource kind, and drives the remote media store.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/metrics"
	"alcyxob/portfolio-api/internal/storage"
)

// discardTimeout bounds a best-effort remote delete.
const discardTimeout = 30 * time.Second

var (
	ErrMissingFile     = errors.New("no file uploaded")
	ErrInvalidFile     = errors.New("invalid file type, allowed types are JPEG, PNG and GIF images, MP4 and WebM videos, PDF and Word documents")
	ErrPayloadTooLarge = errors.New("file too large")
)

// File is an uploaded file as received by the HTTP layer.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Target identifies the record collection (and content category) a file belongs to.
type Target struct {
	Collection domain.Collection
	Category   string
}

// Pipeline validates files and hands them to the media store.
type Pipeline struct {
	store  storage.MediaStore
	policy Policy
	logger *slog.Logger
}

// NewPipeline creates an upload pipeline. A non-positive maxBytes disables the size check.
func NewPipeline(store storage.MediaStore, policy Policy, logger *slog.Logger) *Pipeline {
	return &Pipeline{store: store, policy: policy, logger: logger}
}

// MaxBytes is the largest accepted file size.
func (p *Pipeline) MaxBytes() int64 {
	return p.policy.MaxBytes
}

// Process validates f and stores it remotely. Nothing reaches the media store
// when validation fails.
func (p *Pipeline) Process(ctx context.Context, target Target, f *File) (*domain.FileRef, error) {
	if f == nil || len(f.Data) == 0 {
		return nil, ErrMissingFile
	}

	mimeType := normalizeMime(f.ContentType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = normalizeMime(mimetype.Detect(f.Data).String())
	}
	kind := domain.KindForMime(mimeType)

	if !slices.Contains(allowedMimeTypes, mimeType) {
		metrics.UploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
		return nil, fmt.Errorf("%w (got %s)", ErrInvalidFile, mimeType)
	}
	if p.policy.MaxBytes > 0 && int64(len(f.Data)) > p.policy.MaxBytes {
		metrics.UploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
		return nil, fmt.Errorf("%w: limit is %d MB", ErrPayloadTooLarge, p.policy.MaxBytes>>20)
	}

	dest := p.policy.Route(target.Collection, target.Category, mimeType)
	stored, err := p.store.Store(ctx, storage.Object{Name: f.Name, ContentType: mimeType, Data: f.Data}, dest)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidFormat):
			metrics.UploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		case errors.Is(err, storage.ErrPayloadTooLarge):
			metrics.UploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
			return nil, fmt.Errorf("%w: %v", ErrPayloadTooLarge, err)
		}
		metrics.UploadsTotal.WithLabelValues(string(kind), "failed").Inc()
		p.logger.ErrorContext(ctx, "remote upload failed",
			slog.String("store", p.store.Name()),
			slog.String("folder", dest.Folder),
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		return nil, err
	}

	metrics.UploadsTotal.WithLabelValues(string(kind), "ok").Inc()
	metrics.UploadBytesTotal.Add(float64(len(f.Data)))
	p.logger.InfoContext(ctx, "file stored",
		slog.String("store", p.store.Name()),
		slog.String("folder", dest.Folder),
		slog.String("kind", string(kind)),
		slog.String("remote_id", stored.RemoteID),
		slog.Int("bytes", len(f.Data)))

	return &domain.FileRef{URL: stored.URL, MimeType: mimeType, RemoteID: stored.RemoteID}, nil
}

// Discard deletes a remote file on a best-effort basis. It outlives request
// cancellation and never fails: errors are logged and counted.
func (p *Pipeline) Discard(ctx context.Context, ref domain.FileRef) {
	if ref.RemoteID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
	defer cancel()

	if err := p.store.Delete(ctx, ref.RemoteID, ref.Kind()); err != nil {
		metrics.RemoteDeletesTotal.WithLabelValues("failed").Inc()
		p.logger.WarnContext(ctx, "remote file delete failed, file orphaned",
			slog.String("store", p.store.Name()),
			slog.String("remote_id", ref.RemoteID),
			slog.Any("error", err))
		return
	}
	metrics.RemoteDeletesTotal.WithLabelValues("ok").Inc()
	p.logger.InfoContext(ctx, "remote file deleted", slog.String("remote_id", ref.RemoteID))
}

// normalizeMime drops parameters such as "; charset=binary" and lower-cases the type.
func normalizeMime(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
