package api

import (
	"errors"
	"log/slog"
	"net/http"

	"alcyxob/portfolio-api/internal/service"
	"alcyxob/portfolio-api/internal/upload"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to status codes. Anything unrecognised is
// an upstream failure: logged and answered with 500 and the error message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrContentNotFound):
		abortWithError(c, http.StatusNotFound, "Content not found")
	case errors.Is(err, service.ErrProjectNotFound):
		abortWithError(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, upload.ErrMissingFile):
		abortWithError(c, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, upload.ErrInvalidFile),
		errors.Is(err, upload.ErrPayloadTooLarge),
		errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, errBadRequest):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		loggerFrom(c).ErrorContext(c.Request.Context(), "request failed",
			slog.String("route", c.FullPath()), slog.Any("error", err))
		abortWithError(c, http.StatusInternalServerError, err.Error())
	}
}
