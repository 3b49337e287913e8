package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"alcyxob/portfolio-api/internal/config"
	"alcyxob/portfolio-api/internal/storage"

	"github.com/gin-gonic/gin"
)

const healthProbeTimeout = 3 * time.Second

// PingFunc probes a dependency.
type PingFunc func(ctx context.Context) error

// HealthHandler reports connectivity of the database and the media store.
type HealthHandler struct {
	dbPing PingFunc
	media  storage.MediaStore
}

func NewHealthHandler(dbPing PingFunc, media storage.MediaStore) *HealthHandler {
	return &HealthHandler{dbPing: dbPing, media: media}
}

type HealthResponse struct {
	Status        string `json:"status"`
	Cloudinary    bool   `json:"cloudinary"`
	MongoDB       bool   `json:"mongodb"`
	MediaProvider string `json:"mediaProvider"`
	MediaStore    bool   `json:"mediaStore"`
}

// Health handles GET /api/health. It always answers 200; the booleans carry the state.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	var dbErr, mediaErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dbErr = h.dbPing(ctx)
	}()
	go func() {
		defer wg.Done()
		mediaErr = h.media.Ping(ctx)
	}()
	wg.Wait()

	logger := loggerFrom(c)
	if dbErr != nil {
		logger.Warn("health: database unreachable", slog.Any("error", dbErr))
	}
	if mediaErr != nil {
		logger.Warn("health: media store unreachable", slog.String("store", h.media.Name()), slog.Any("error", mediaErr))
	}

	mediaOK := mediaErr == nil
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "OK",
		Cloudinary:    mediaOK && h.media.Name() == config.ProviderCloudinary,
		MongoDB:       dbErr == nil,
		MediaProvider: h.media.Name(),
		MediaStore:    mediaOK,
	})
}
