// internal/domain/project.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a student project showcased on the portfolio.
type Project struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectTitle string             `bson:"projectTitle" json:"projectTitle"`
	StudentName  string             `bson:"studentName" json:"studentName"`
	RollNo       string             `bson:"rollNo" json:"rollNo"`
	Department   string             `bson:"department" json:"department"`
	Year         string             `bson:"year" json:"year"`
	Description  string             `bson:"description" json:"description"`
	FileRef      `bson:",inline"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProjectPatch lists the fields an update may overwrite. Nil means "keep".
type ProjectPatch struct {
	ProjectTitle *string
	StudentName  *string
	RollNo       *string
	Department   *string
	Year         *string
	Description  *string
}
