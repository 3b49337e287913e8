package service

import (
	"context"
	"errors"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/upload"
)

// --- Error Definitions ---
var (
	ErrContentNotFound  = errors.New("content not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrValidationFailed = errors.New("validation failed")
)

// FileUploader is the part of the upload pipeline the services depend on.
type FileUploader interface {
	Process(ctx context.Context, target upload.Target, f *upload.File) (*domain.FileRef, error)
	Discard(ctx context.Context, ref domain.FileRef)
}
