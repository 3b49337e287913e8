package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"

	"alcyxob/portfolio-api/internal/config"
	"alcyxob/portfolio-api/internal/domain"
)

// imageLimitTransformation is applied on upload so Cloudinary never keeps
// an image larger than ImageLimit on either side.
var imageLimitTransformation = fmt.Sprintf("c_limit,w_%d,h_%d", ImageLimit, ImageLimit)

// cloudinaryStore implements MediaStore on top of the Cloudinary upload and admin APIs.
type cloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore creates a Cloudinary-backed media store. cfg.APIPrefix
// overrides the API host, e.g. for a regional endpoint.
func NewCloudinaryStore(cfg config.CloudinaryConfig) (MediaStore, error) {
	conf, err := cldconfig.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary config: %w", err)
	}
	// The upload and admin clients copy the configuration, so it is final here.
	conf.URL.Secure = true
	if cfg.APIPrefix != "" {
		conf.API.UploadPrefix = strings.TrimRight(cfg.APIPrefix, "/")
	}

	cld, err := cloudinary.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary client: %w", err)
	}

	slog.Info("Cloudinary media store initialized", slog.String("cloud", cfg.CloudName))
	return &cloudinaryStore{cld: cld}, nil
}

func (s *cloudinaryStore) Name() string { return config.ProviderCloudinary }

// Store uploads obj into dest.Folder with the resource type Cloudinary expects for dest.Kind.
func (s *cloudinaryStore) Store(ctx context.Context, obj Object, dest Destination) (*StoredFile, error) {
	if err := dest.Constraints.Check(obj); err != nil {
		return nil, err
	}

	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(obj.Data), uploadParams(dest))
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	if resp.PublicID == "" {
		return nil, errors.New("cloudinary upload: empty public id in response")
	}

	url := resp.SecureURL
	if url == "" {
		url = resp.URL
	}
	return &StoredFile{URL: url, RemoteID: resp.PublicID}, nil
}

// Delete destroys the asset. Cloudinary answers "not found" for unknown ids,
// which is reported as an error so callers can log it.
func (s *cloudinaryStore) Delete(ctx context.Context, remoteID string, kind domain.ResourceKind) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     remoteID,
		ResourceType: string(kind),
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %q: %w", remoteID, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %q: %s", remoteID, resp.Error.Message)
	}
	if resp.Result != "ok" {
		return fmt.Errorf("cloudinary destroy %q: result %q", remoteID, resp.Result)
	}
	return nil
}

func (s *cloudinaryStore) Ping(ctx context.Context) error {
	resp, err := s.cld.Admin.Ping(ctx)
	if err != nil {
		return err
	}
	if resp.Error.Message != "" {
		return errors.New(resp.Error.Message)
	}
	return nil
}

func uploadParams(dest Destination) uploader.UploadParams {
	params := uploader.UploadParams{
		Folder:       dest.Folder,
		ResourceType: string(dest.Kind),
	}
	// Raw uploads carry no detectable format on Cloudinary's side; they were
	// validated locally by Constraints.Check.
	if dest.Kind != domain.KindRaw {
		params.AllowedFormats = api.CldAPIArray(dest.Constraints.AllowedFormats)
	}
	if dest.Kind == domain.KindImage && dest.Constraints.LimitImageSize {
		params.Transformation = imageLimitTransformation
	}
	return params
}
