package api

import (
	"log/slog"
	"net/http"

	"alcyxob/portfolio-api/internal/metrics"
	"alcyxob/portfolio-api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Gate           *service.AdminGate
	ContentService service.ContentService
	ProjectService service.ProjectService
	Health         *HealthHandler
	Logger         *slog.Logger
	PublicDir      string
	CORSOrigins    []string // empty allows every origin
	MaxFileBytes   int64
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	// metrics wraps Recovery so recovered panics are counted as 500s.
	router.Use(RequestLogger(deps.Logger), metrics.Middleware(), Recovery(), corsMiddleware(deps.CORSOrigins))
	// Multipart bodies are streamed to temp files beyond this size.
	router.MaxMultipartMemory = 32 << 20

	SetupRoutes(router, deps)
	return router
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	contentHandler := NewContentHandler(deps.ContentService, deps.MaxFileBytes)
	projectHandler := NewProjectHandler(deps.ProjectService, deps.MaxFileBytes)
	adminHandler := NewAdminHandler(deps.Gate)

	adminAuth := AdminMiddleware(deps.Gate)
	bodyLimit := BodyLimitMiddleware(deps.MaxFileBytes)
	// The admin check runs first so a rejected request never has its body read.
	adminOnly := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{adminAuth, bodyLimit, h}
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", deps.Health.Health)
		apiGroup.POST("/verify-admin", adminHandler.VerifyAdmin)

		contentGroup := apiGroup.Group("/content")
		{
			contentGroup.GET("/:category", contentHandler.ListByCategory)
			contentGroup.GET("/item/:id", contentHandler.GetContent)
			contentGroup.POST("", adminOnly(contentHandler.CreateContent)...)
			contentGroup.PUT("/:id", adminOnly(contentHandler.UpdateContent)...)
			contentGroup.DELETE("/:id", adminOnly(contentHandler.DeleteContent)...)
		}

		projectGroup := apiGroup.Group("/projects")
		{
			projectGroup.GET("", projectHandler.ListProjects)
			projectGroup.GET("/:id", projectHandler.GetProject)
			projectGroup.POST("", adminOnly(projectHandler.CreateProject)...)
			projectGroup.PUT("/:id", adminOnly(projectHandler.UpdateProject)...)
			projectGroup.DELETE("/:id", adminOnly(projectHandler.DeleteProject)...)
		}
	}

	router.NoRoute(staticFallback(deps.PublicDir))
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", AdminPasswordHeader}
	return cors.New(corsConfig)
}
