package storage

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/portfolio-api/internal/config"
	"alcyxob/portfolio-api/internal/domain"
)

const testBucket = "media"

type s3Object struct {
	data        []byte
	contentType string
}

// fakeS3 is a path-style S3 endpoint holding objects of one bucket in memory.
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string]s3Object
	denyPuts bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != testBucket {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case r.Method == http.MethodHead && key == "":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && key != "":
		if f.denyPuts {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
			return
		}
		data, _ := io.ReadAll(r.Body)
		f.objects[key] = s3Object{data: data, contentType: r.Header.Get("Content-Type")}
		w.Header().Set("ETag", `"fake-etag"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete && key != "":
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) object(key string) (s3Object, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	return obj, ok
}

func newTestS3Store(t *testing.T, mutate func(*config.S3Config)) (MediaStore, *fakeS3, string) {
	t.Helper()

	fake := &fakeS3{objects: map[string]s3Object{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := config.S3Config{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		BucketName:      testBucket,
		PublicBaseURL:   "https://cdn.test/media/",
	}
	if mutate != nil {
		mutate(&cfg)
	}

	store, err := NewS3Store(context.Background(), cfg)
	require.NoError(t, err)
	return store, fake, srv.URL
}

var uuidPattern = `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

func TestS3StoreKeyLayoutAndURL(t *testing.T) {
	store, fake, _ := newTestS3Store(t, nil)

	for _, row := range []struct {
		description string
		obj         Object
		dest        Destination
		keyPattern  string
	}{
		{
			"extension from the content type",
			Object{Name: "report", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
			Destination{Folder: "portfolio/projects", Kind: domain.KindRaw},
			`^portfolio/projects/raw/` + uuidPattern + `\.pdf$`,
		},
		{
			"extension from the file name",
			Object{Name: "Clip.MP4", ContentType: "video/mp4", Data: []byte("....ftypisom")},
			Destination{Folder: "portfolio/hobbies", Kind: domain.KindVideo},
			`^portfolio/hobbies/video/` + uuidPattern + `\.mp4$`,
		},
	} {
		t.Run(row.description, func(t *testing.T) {
			stored, err := store.Store(context.Background(), row.obj, row.dest)
			require.NoError(t, err)

			assert.Regexp(t, regexp.MustCompile(row.keyPattern), stored.RemoteID)
			assert.Equal(t, "https://cdn.test/media/"+stored.RemoteID, stored.URL)

			obj, ok := fake.object(stored.RemoteID)
			require.True(t, ok, "object %q not in bucket", stored.RemoteID)
			assert.Equal(t, row.obj.Data, obj.data)
			assert.Equal(t, row.obj.ContentType, obj.contentType)
		})
	}
}

func TestS3StoreDefaultPublicURL(t *testing.T) {
	store, _, endpoint := newTestS3Store(t, func(cfg *config.S3Config) { cfg.PublicBaseURL = "" })

	stored, err := store.Store(context.Background(),
		Object{Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
		Destination{Folder: "portfolio/curriculum", Kind: domain.KindRaw})
	require.NoError(t, err)
	assert.Equal(t, endpoint+"/"+testBucket+"/"+stored.RemoteID, stored.URL)
}

func TestS3StoreLimitsImages(t *testing.T) {
	store, fake, _ := newTestS3Store(t, nil)

	stored, err := store.Store(context.Background(),
		Object{Name: "wide.png", ContentType: "image/png", Data: encodePNG(t, 2400, 600)},
		Destination{Folder: "portfolio/hobbies", Kind: domain.KindImage, Constraints: Constraints{LimitImageSize: true}})
	require.NoError(t, err)

	obj, ok := fake.object(stored.RemoteID)
	require.True(t, ok)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(obj.data))
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestS3StoreDeleteRoundTrip(t *testing.T) {
	store, fake, _ := newTestS3Store(t, nil)
	ctx := context.Background()

	stored, err := store.Store(ctx,
		Object{Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
		Destination{Folder: "portfolio/curriculum", Kind: domain.KindRaw})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, stored.RemoteID, domain.KindRaw))
	_, ok := fake.object(stored.RemoteID)
	assert.False(t, ok)

	assert.Error(t, store.Delete(ctx, "", domain.KindRaw))
}

func TestS3StoreUpstreamErrors(t *testing.T) {
	store, fake, _ := newTestS3Store(t, nil)
	fake.mu.Lock()
	fake.denyPuts = true
	fake.mu.Unlock()

	_, err := store.Store(context.Background(),
		Object{Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
		Destination{Folder: "portfolio", Kind: domain.KindRaw})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put object")
	assert.Empty(t, fake.objects)
}

func TestS3StorePing(t *testing.T) {
	store, _, _ := newTestS3Store(t, nil)
	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, config.ProviderS3, store.Name())

	missing, _, _ := newTestS3Store(t, func(cfg *config.S3Config) { cfg.BucketName = "other" })
	assert.Error(t, missing.Ping(context.Background()))
}
