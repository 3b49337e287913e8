package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/portfolio-api/internal/config"
	"alcyxob/portfolio-api/internal/domain"
)

// fakeCloudinary answers the upload, destroy and ping calls the store makes
// and records what it was sent.
type fakeCloudinary struct {
	mu sync.Mutex

	uploadStatus  int
	uploadReply   any
	destroyResult string
	pingReply     any

	uploadFields url.Values
	uploadedData []byte
	destroyPaths []string
	destroyed    []string
}

func newFakeCloudinary() *fakeCloudinary {
	return &fakeCloudinary{
		uploadStatus:  http.StatusOK,
		destroyResult: "ok",
		pingReply:     map[string]string{"status": "ok"},
	}
}

func (f *fakeCloudinary) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/demo/auto/upload"):
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.uploadFields = url.Values(r.MultipartForm.Value)
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.uploadedData, _ = io.ReadAll(file)
		file.Close()
		writeJSON(w, f.uploadStatus, f.uploadReply)

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/destroy"):
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		f.destroyPaths = append(f.destroyPaths, r.URL.Path)
		f.destroyed = append(f.destroyed, form.Get("public_id"))
		writeJSON(w, http.StatusOK, map[string]string{"result": f.destroyResult})

	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/demo/ping"):
		writeJSON(w, http.StatusOK, f.pingReply)

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestCloudinaryStore(t *testing.T) (MediaStore, *fakeCloudinary) {
	t.Helper()

	fake := newFakeCloudinary()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewCloudinaryStore(config.CloudinaryConfig{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		APIPrefix: srv.URL + "/",
	})
	require.NoError(t, err)
	return store, fake
}

func imageDestination() Destination {
	return Destination{
		Folder: "portfolio/hobbies",
		Kind:   domain.KindImage,
		Constraints: Constraints{
			AllowedMimeTypes: []string{"image/png"},
			AllowedFormats:   []string{"png", "jpg"},
			LimitImageSize:   true,
		},
	}
}

func TestCloudinaryStoreUpload(t *testing.T) {
	store, fake := newTestCloudinaryStore(t)
	fake.uploadReply = map[string]string{
		"public_id":  "portfolio/hobbies/abc123",
		"secure_url": "https://res.cloudinary.com/demo/image/upload/v1/portfolio/hobbies/abc123.png",
		"url":        "http://res.cloudinary.com/demo/image/upload/v1/portfolio/hobbies/abc123.png",
	}

	stored, err := store.Store(context.Background(),
		Object{Name: "pic.png", ContentType: "image/png", Data: []byte("png bytes")}, imageDestination())
	require.NoError(t, err)

	assert.Equal(t, "portfolio/hobbies/abc123", stored.RemoteID)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/portfolio/hobbies/abc123.png", stored.URL)

	assert.Equal(t, "portfolio/hobbies", fake.uploadFields.Get("folder"))
	assert.Equal(t, "image", fake.uploadFields.Get("resource_type"))
	assert.Equal(t, "c_limit,w_1200,h_1200", fake.uploadFields.Get("transformation"))
	assert.Equal(t, "png,jpg", fake.uploadFields.Get("allowed_formats"))
	assert.NotEmpty(t, fake.uploadFields.Get("signature"))
	assert.Equal(t, []byte("png bytes"), fake.uploadedData)
}

func TestCloudinaryStoreFallsBackToPlainURL(t *testing.T) {
	store, fake := newTestCloudinaryStore(t)
	fake.uploadReply = map[string]string{
		"public_id": "portfolio/projects/report",
		"url":       "http://res.cloudinary.com/demo/raw/upload/v1/portfolio/projects/report",
	}

	stored, err := store.Store(context.Background(),
		Object{Name: "report.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
		Destination{Folder: "portfolio/projects", Kind: domain.KindRaw})
	require.NoError(t, err)

	assert.Equal(t, "http://res.cloudinary.com/demo/raw/upload/v1/portfolio/projects/report", stored.URL)
	assert.Equal(t, "raw", fake.uploadFields.Get("resource_type"))
	assert.Empty(t, fake.uploadFields.Get("transformation"))
	assert.Empty(t, fake.uploadFields.Get("allowed_formats"))
}

func TestCloudinaryStoreUploadErrors(t *testing.T) {
	for _, row := range []struct {
		description string
		status      int
		reply       any
		wantErr     string
	}{
		{"error message in body", http.StatusBadRequest,
			map[string]any{"error": map[string]string{"message": "Invalid image file"}}, "Invalid image file"},
		{"missing public id", http.StatusOK,
			map[string]string{"secure_url": "https://res.cloudinary.com/x"}, "empty public id"},
	} {
		t.Run(row.description, func(t *testing.T) {
			store, fake := newTestCloudinaryStore(t)
			fake.uploadStatus = row.status
			fake.uploadReply = row.reply

			_, err := store.Store(context.Background(),
				Object{Name: "pic.png", ContentType: "image/png", Data: []byte("x")}, imageDestination())
			require.Error(t, err)
			assert.Contains(t, err.Error(), row.wantErr)
		})
	}
}

func TestCloudinaryStoreRejectsBeforeUpload(t *testing.T) {
	store, fake := newTestCloudinaryStore(t)

	_, err := store.Store(context.Background(),
		Object{Name: "a.zip", ContentType: "application/zip", Data: []byte("PK")}, imageDestination())
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Nil(t, fake.uploadFields)
}

func TestCloudinaryStoreDelete(t *testing.T) {
	store, fake := newTestCloudinaryStore(t)

	require.NoError(t, store.Delete(context.Background(), "portfolio/projects/report", domain.KindRaw))
	assert.Equal(t, []string{"portfolio/projects/report"}, fake.destroyed)
	require.Len(t, fake.destroyPaths, 1)
	assert.True(t, strings.HasSuffix(fake.destroyPaths[0], "/demo/raw/destroy"), fake.destroyPaths[0])

	fake.destroyResult = "not found"
	err := store.Delete(context.Background(), "portfolio/gone", domain.KindImage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"not found"`)
	assert.True(t, strings.HasSuffix(fake.destroyPaths[1], "/demo/image/destroy"), fake.destroyPaths[1])
}

func TestCloudinaryStorePing(t *testing.T) {
	store, fake := newTestCloudinaryStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	fake.pingReply = map[string]any{"error": map[string]string{"message": "Invalid api_key"}}
	err := store.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid api_key")
	assert.Equal(t, config.ProviderCloudinary, store.Name())
}
