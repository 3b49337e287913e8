package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"alcyxob/portfolio-api/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// writeForm holds the text fields and optional file of a create/update request.
// Multipart and urlencoded forms are accepted; JSON bodies carry text fields only.
type writeForm struct {
	values map[string]string
	file   *upload.File
}

// readWriteForm parses the request body. The file part is named "file" and
// is read fully into memory, bounded by maxFileBytes.
func readWriteForm(c *gin.Context, maxFileBytes int64) (*writeForm, error) {
	form := &writeForm{values: map[string]string{}}

	if c.ContentType() == binding.MIMEJSON {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, bodyError(err)
		}
		for k, v := range body {
			switch v := v.(type) {
			case string:
				form.values[k] = v
			case float64, bool:
				form.values[k] = fmt.Sprint(v)
			}
		}
		return form, nil
	}

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			return nil, bodyError(err)
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return nil, bodyError(err)
	}
	for k, vs := range c.Request.PostForm {
		if len(vs) > 0 {
			form.values[k] = vs[0]
		}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return form, nil
		}
		return nil, bodyError(err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := io.Reader(f)
	if maxFileBytes > 0 {
		reader = io.LimitReader(f, maxFileBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, bodyError(err)
	}
	if maxFileBytes > 0 && int64(len(data)) > maxFileBytes {
		return nil, fmt.Errorf("%w: limit is %d MB", upload.ErrPayloadTooLarge, maxFileBytes>>20)
	}

	form.file = &upload.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	return form, nil
}

// get returns the trimmed value of a field.
func (f *writeForm) get(name string) string {
	return strings.TrimSpace(f.values[name])
}

// optional returns nil for absent or blank fields, so they keep their stored value.
func (f *writeForm) optional(name string) *string {
	v := f.get(name)
	if v == "" {
		return nil
	}
	return &v
}

// bodyError reports an over-limit body as ErrPayloadTooLarge and anything
// else as a malformed request.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return fmt.Errorf("%w: %v", upload.ErrPayloadTooLarge, err)
	}
	return fmt.Errorf("%w: malformed request body: %v", errBadRequest, err)
}

var errBadRequest = errors.New("bad request")
