package upload

import (
	"path"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/storage"
)

// Accepted MIME types: JPEG, PNG and GIF images, MP4/WebM video, PDF and Word documents.
var allowedMimeTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"video/mp4",
	"video/webm",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var allowedFormats = []string{"jpg", "jpeg", "png", "gif", "mp4", "webm", "pdf", "doc", "docx"}

// Policy decides where uploads go and which constraints apply.
type Policy struct {
	RootFolder string
	MaxBytes   int64
}

// Route maps the target collection, the content category and the MIME type
// to a storage destination. Projects share one folder; content is split by
// the known categories and falls back to the root folder.
func (p Policy) Route(collection domain.Collection, category, mimeType string) storage.Destination {
	folder := p.RootFolder
	switch {
	case collection == domain.CollectionProjects:
		folder = path.Join(p.RootFolder, "projects")
	case category == domain.CategoryCurriculum || category == domain.CategoryHobbies:
		folder = path.Join(p.RootFolder, category)
	}

	kind := domain.KindForMime(mimeType)
	return storage.Destination{
		Folder: folder,
		Kind:   kind,
		Constraints: storage.Constraints{
			AllowedMimeTypes: allowedMimeTypes,
			AllowedFormats:   allowedFormats,
			MaxBytes:         p.MaxBytes,
			LimitImageSize:   kind == domain.KindImage,
		},
	}
}
