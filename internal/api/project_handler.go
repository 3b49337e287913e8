package api

import (
	"net/http"
	"time"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProjectHandler holds the project service dependency.
type ProjectHandler struct {
	projectService service.ProjectService
	maxFileBytes   int64
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService service.ProjectService, maxFileBytes int64) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, maxFileBytes: maxFileBytes}
}

// ProjectResponse is the DTO for returning student project details.
type ProjectResponse struct {
	ID           string    `json:"id"`
	ProjectTitle string    `json:"projectTitle"`
	StudentName  string    `json:"studentName"`
	RollNo       string    `json:"rollNo"`
	Department   string    `json:"department"`
	Year         string    `json:"year"`
	Description  string    `json:"description"`
	FileURL      string    `json:"fileUrl"`
	FileType     string    `json:"fileType"`
	RemoteFileID string    `json:"remoteFileId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MapProjectToResponse converts a domain.Project to ProjectResponse DTO.
func MapProjectToResponse(p *domain.Project) ProjectResponse {
	if p == nil {
		return ProjectResponse{}
	}
	return ProjectResponse{
		ID:           p.ID.Hex(),
		ProjectTitle: p.ProjectTitle,
		StudentName:  p.StudentName,
		RollNo:       p.RollNo,
		Department:   p.Department,
		Year:         p.Year,
		Description:  p.Description,
		FileURL:      p.URL,
		FileType:     p.MimeType,
		RemoteFileID: p.RemoteID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// MapProjectsToResponse converts a slice of domain.Project; never returns nil.
func MapProjectsToResponse(projects []domain.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = MapProjectToResponse(&projects[i])
	}
	return responses
}

// ListProjects handles GET /api/projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProjectsToResponse(projects))
}

// GetProject handles GET /api/projects/:id.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProjectToResponse(project))
}

// CreateProject handles POST /api/projects (multipart: file plus the six text fields).
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	form, err := readWriteForm(c, h.maxFileBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), service.NewProject{
		ProjectTitle: form.get("projectTitle"),
		StudentName:  form.get("studentName"),
		RollNo:       form.get("rollNo"),
		Department:   form.get("department"),
		Year:         form.get("year"),
		Description:  form.get("description"),
	}, form.file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProjectToResponse(project))
}

// UpdateProject handles PUT /api/projects/:id. Omitted or blank fields keep their value.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	form, err := readWriteForm(c, h.maxFileBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	patch := domain.ProjectPatch{
		ProjectTitle: form.optional("projectTitle"),
		StudentName:  form.optional("studentName"),
		RollNo:       form.optional("rollNo"),
		Department:   form.optional("department"),
		Year:         form.optional("year"),
		Description:  form.optional("description"),
	}
	project, err := h.projectService.UpdateProject(c.Request.Context(), c.Param("id"), patch, form.file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProjectToResponse(project))
}

// DeleteProject handles DELETE /api/projects/:id.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
