package api

import (
	"net/http"
	"time"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ContentHandler holds the content service dependency.
type ContentHandler struct {
	contentService service.ContentService
	maxFileBytes   int64
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentService service.ContentService, maxFileBytes int64) *ContentHandler {
	return &ContentHandler{contentService: contentService, maxFileBytes: maxFileBytes}
}

// ContentResponse is the DTO for returning content details.
type ContentResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	FileURL      string    `json:"fileUrl"`
	FileType     string    `json:"fileType"`
	RemoteFileID string    `json:"remoteFileId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MapContentToResponse converts a domain.Content to ContentResponse DTO.
func MapContentToResponse(c *domain.Content) ContentResponse {
	if c == nil {
		return ContentResponse{}
	}
	return ContentResponse{
		ID:           c.ID.Hex(),
		Title:        c.Title,
		Description:  c.Description,
		Category:     c.Category,
		FileURL:      c.URL,
		FileType:     c.MimeType,
		RemoteFileID: c.RemoteID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// MapContentsToResponse converts a slice of domain.Content; never returns nil.
func MapContentsToResponse(contents []domain.Content) []ContentResponse {
	responses := make([]ContentResponse, len(contents))
	for i := range contents {
		responses[i] = MapContentToResponse(&contents[i])
	}
	return responses
}

// ListByCategory handles GET /api/content/:category.
func (h *ContentHandler) ListByCategory(c *gin.Context) {
	contents, err := h.contentService.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapContentsToResponse(contents))
}

// GetContent handles GET /api/content/item/:id.
func (h *ContentHandler) GetContent(c *gin.Context) {
	content, err := h.contentService.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapContentToResponse(content))
}

// CreateContent handles POST /api/content (multipart: file, title, description, category).
func (h *ContentHandler) CreateContent(c *gin.Context) {
	form, err := readWriteForm(c, h.maxFileBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	content, err := h.contentService.CreateContent(c.Request.Context(), service.NewContent{
		Title:       form.get("title"),
		Description: form.get("description"),
		Category:    form.get("category"),
	}, form.file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapContentToResponse(content))
}

// UpdateContent handles PUT /api/content/:id. Omitted or blank fields keep their value.
func (h *ContentHandler) UpdateContent(c *gin.Context) {
	form, err := readWriteForm(c, h.maxFileBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	patch := domain.ContentPatch{
		Title:       form.optional("title"),
		Description: form.optional("description"),
	}
	content, err := h.contentService.UpdateContent(c.Request.Context(), c.Param("id"), patch, form.file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapContentToResponse(content))
}

// DeleteContent handles DELETE /api/content/:id.
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	if err := h.contentService.DeleteContent(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}
