package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// staticFallback serves files from publicDir for unmatched GET/HEAD paths and
// falls back to the landing page. Unmatched API paths get a JSON 404.
func staticFallback(publicDir string) gin.HandlerFunc {
	index := filepath.Join(publicDir, "index.html")
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || p == "/api" {
			abortWithError(c, http.StatusNotFound, "Route not found")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			abortWithError(c, http.StatusNotFound, "Route not found")
			return
		}

		// path.Clean on a rooted path cannot climb above publicDir.
		name := filepath.Join(publicDir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}
		if _, err := os.Stat(index); err != nil {
			abortWithError(c, http.StatusNotFound, "Route not found")
			return
		}
		c.File(index)
	}
}
