// internal/domain/file.go
package domain

import "strings"

// FileRef points at the single remote file a record owns.
type FileRef struct {
	URL      string `bson:"fileUrl" json:"fileUrl"`
	MimeType string `bson:"fileType" json:"fileType"`
	RemoteID string `bson:"remoteFileId" json:"remoteFileId"` // needed to delete the remote object
}

// ResourceKind is the coarse media category the remote store handles differently.
type ResourceKind string

const (
	KindImage ResourceKind = "image"
	KindVideo ResourceKind = "video"
	KindRaw   ResourceKind = "raw"
)

// KindForMime derives the resource kind from a MIME type.
func KindForMime(mimeType string) ResourceKind {
	mimeType = strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	default:
		return KindRaw
	}
}

// Kind is the resource kind of the referenced file.
func (f FileRef) Kind() ResourceKind {
	return KindForMime(f.MimeType)
}

// Collection names a record kind.
type Collection string

const (
	CollectionContent  Collection = "content"
	CollectionProjects Collection = "projects"
)
