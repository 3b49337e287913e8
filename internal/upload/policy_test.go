package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alcyxob/portfolio-api/internal/domain"
)

func TestPolicyRoute(t *testing.T) {
	policy := Policy{RootFolder: "portfolio", MaxBytes: 50 << 20}

	for _, row := range []struct {
		description string
		collection  domain.Collection
		category    string
		mimeType    string
		folder      string
		kind        domain.ResourceKind
		limitImage  bool
	}{
		{"project image", domain.CollectionProjects, "", "image/png", "portfolio/projects", domain.KindImage, true},
		{"project ignores category", domain.CollectionProjects, "hobbies", "application/pdf", "portfolio/projects", domain.KindRaw, false},
		{"curriculum pdf", domain.CollectionContent, "curriculum", "application/pdf", "portfolio/curriculum", domain.KindRaw, false},
		{"hobbies video", domain.CollectionContent, "hobbies", "video/mp4", "portfolio/hobbies", domain.KindVideo, false},
		{"unknown category", domain.CollectionContent, "travel", "image/jpeg", "portfolio", domain.KindImage, true},
		{"missing category", domain.CollectionContent, "", "application/msword", "portfolio", domain.KindRaw, false},
	} {
		t.Run(row.description, func(t *testing.T) {
			dest := policy.Route(row.collection, row.category, row.mimeType)
			assert.Equal(t, row.folder, dest.Folder)
			assert.Equal(t, row.kind, dest.Kind)
			assert.Equal(t, row.limitImage, dest.Constraints.LimitImageSize)
			assert.Equal(t, int64(50<<20), dest.Constraints.MaxBytes)
			assert.Contains(t, dest.Constraints.AllowedFormats, "docx")
		})
	}
}
