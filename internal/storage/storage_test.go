package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alcyxob/portfolio-api/internal/domain"
)

func TestConstraintsCheck(t *testing.T) {
	c := Constraints{
		AllowedMimeTypes: []string{"image/png", "application/pdf"},
		AllowedFormats:   []string{"png", "pdf"},
		MaxBytes:         10,
	}

	assert.NoError(t, c.Check(Object{Name: "a.PNG", ContentType: "image/png", Data: []byte("123")}))
	assert.NoError(t, c.Check(Object{Name: "noext", ContentType: "application/pdf", Data: []byte("1")}))
	assert.ErrorIs(t, c.Check(Object{Name: "a.zip", ContentType: "application/zip", Data: []byte("1")}), ErrInvalidFormat)
	assert.ErrorIs(t, c.Check(Object{Name: "a.exe", ContentType: "image/png", Data: []byte("1")}), ErrInvalidFormat)
	assert.ErrorIs(t, c.Check(Object{Name: "a.png", ContentType: "image/png", Data: make([]byte, 11)}), ErrPayloadTooLarge)
}

func TestUploadParams(t *testing.T) {
	constraints := Constraints{AllowedFormats: []string{"jpg", "png"}, LimitImageSize: true}

	img := uploadParams(Destination{Folder: "portfolio/hobbies", Kind: domain.KindImage, Constraints: constraints})
	assert.Equal(t, "portfolio/hobbies", img.Folder)
	assert.Equal(t, "image", img.ResourceType)
	assert.Equal(t, "c_limit,w_1200,h_1200", img.Transformation)
	assert.ElementsMatch(t, []string{"jpg", "png"}, img.AllowedFormats)

	video := uploadParams(Destination{Folder: "portfolio", Kind: domain.KindVideo, Constraints: constraints})
	assert.Empty(t, video.Transformation)

	raw := uploadParams(Destination{Folder: "portfolio/projects", Kind: domain.KindRaw, Constraints: constraints})
	assert.Equal(t, "raw", raw.ResourceType)
	assert.Empty(t, raw.AllowedFormats)
}
