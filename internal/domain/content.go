// internal/domain/content.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Known content categories. Any other category is stored as-is but its
// files land in the generic media folder.
const (
	CategoryCurriculum = "curriculum"
	CategoryHobbies    = "hobbies"
)

// Content is a general portfolio entry (curriculum item, hobby, ...) backed by one uploaded file.
type Content struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	FileRef     `bson:",inline"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ContentPatch lists the fields an update may overwrite. Nil means "keep".
type ContentPatch struct {
	Title       *string
	Description *string
}
