package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Media providers understood by storage.NewMediaStore.
const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// DefaultMaxFileSize is the upload limit applied when none is configured (50 MB).
const DefaultMaxFileSize int64 = 50 << 20

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Media      MediaConfig      `mapstructure:"media"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	S3         S3Config         `mapstructure:"s3"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	Mode        string   `mapstructure:"mode"`       // gin mode: debug, release, test
	PublicDir   string   `mapstructure:"public_dir"` // static landing page and assets
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// AdminConfig carries the single shared secret guarding every write.
type AdminConfig struct {
	Password string `mapstructure:"password"`
}

type MediaConfig struct {
	Provider    string `mapstructure:"provider"`
	RootFolder  string `mapstructure:"root_folder"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
}

type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	APIPrefix string `mapstructure:"api_prefix"` // empty uses https://api.cloudinary.com
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	PublicBaseURL   string `mapstructure:"public_base_url"` // prefix for object URLs handed to clients
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// LoadConfig reads configuration from file or environment variables.
// Nested keys map to env vars with dots replaced by underscores,
// e.g. admin.password -> ADMIN_PASSWORD.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.public_dir", "public")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "portfolio")
	v.SetDefault("admin.password", "")
	v.SetDefault("media.provider", ProviderCloudinary)
	v.SetDefault("media.root_folder", "portfolio")
	v.SetDefault("media.max_file_size", DefaultMaxFileSize)
	v.SetDefault("cloudinary.cloud_name", "")
	v.SetDefault("cloudinary.api_key", "")
	v.SetDefault("cloudinary.api_secret", "")
	v.SetDefault("cloudinary.api_prefix", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.public_base_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	err = v.ReadInConfig()
	// A missing file is fine, env vars and defaults still apply.
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	config.Media.Provider = strings.ToLower(strings.TrimSpace(config.Media.Provider))

	return config, config.Validate()
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.Admin.Password == "" {
		return errors.New("admin.password (ADMIN_PASSWORD) must be set")
	}
	if c.Media.MaxFileSize <= 0 {
		return fmt.Errorf("media.max_file_size must be positive, got %d", c.Media.MaxFileSize)
	}
	switch c.Media.Provider {
	case ProviderCloudinary:
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return errors.New("cloudinary.cloud_name, cloudinary.api_key and cloudinary.api_secret must be set")
		}
	case ProviderS3:
		if c.S3.BucketName == "" {
			return errors.New("s3.bucket_name must be set")
		}
	default:
		return fmt.Errorf("unknown media.provider %q", c.Media.Provider)
	}
	return nil
}
