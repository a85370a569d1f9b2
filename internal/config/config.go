package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorageBackendSupabase = "supabase"
	StorageBackendS3       = "s3"
	StorageBackendNone     = "none"
)

type Config struct {
	// Server
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENVIRONMENT" default:"development"`
	BaseURL            string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Supabase
	SupabaseURL            string `envconfig:"SUPABASE_URL"`
	SupabaseServiceRoleKey string `envconfig:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseJWTSecret      string `envconfig:"SUPABASE_JWT_SECRET" required:"true"`
	SupabaseStorageBucket  string `envconfig:"SUPABASE_STORAGE_BUCKET" default:"headshots"`

	// Object storage for saved galleries
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"supabase"`
	S3Endpoint     string `envconfig:"S3_ENDPOINT"`
	S3Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Bucket       string `envconfig:"S3_BUCKET"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY"`

	// Image model
	GeminiAPIKey       string `envconfig:"GEMINI_API_KEY" required:"true"`
	GeminiBaseURL      string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	GeminiImageModel   string `envconfig:"GEMINI_IMAGE_MODEL" default:"gemini-2.5-flash-image"`
	GeminiTextModel    string `envconfig:"GEMINI_TEXT_MODEL" default:"gemini-2.5-flash"`
	ProviderTimeoutSec int    `envconfig:"PROVIDER_TIMEOUT_SEC" default:"180"`

	// Generation limits
	GenerationMaxImages    int `envconfig:"GENERATION_MAX_IMAGES" default:"100"`
	GenerationMaxUploads   int `envconfig:"GENERATION_MAX_UPLOADS" default:"10"`
	GenerationConcurrency  int `envconfig:"GENERATION_CONCURRENCY" default:"0"`
	GenerationUnitAttempts int `envconfig:"GENERATION_UNIT_ATTEMPTS" default:"2"`

	// Events
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	PubSubTopic        string `envconfig:"PUBSUB_TOPIC"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	switch c.StorageBackend {
	case StorageBackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceRoleKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required for the supabase storage backend")
		}
	case StorageBackendS3:
		if c.S3Endpoint == "" || c.S3Bucket == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_ENDPOINT, S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are required for the s3 storage backend")
		}
	case StorageBackendNone:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if (c.GCPProjectID == "") != (c.PubSubTopic == "") {
		return fmt.Errorf("GCP_PROJECT_ID and PUBSUB_TOPIC must be set together")
	}

	if c.GenerationMaxImages < 1 {
		return fmt.Errorf("GENERATION_MAX_IMAGES must be positive")
	}
	if c.GenerationMaxUploads < 1 {
		return fmt.Errorf("GENERATION_MAX_UPLOADS must be positive")
	}
	if c.GenerationConcurrency < 0 {
		return fmt.Errorf("GENERATION_CONCURRENCY must not be negative")
	}
	if c.GenerationUnitAttempts < 1 {
		return fmt.Errorf("GENERATION_UNIT_ATTEMPTS must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (c *Config) ProviderTimeout() time.Duration {
	if c.ProviderTimeoutSec <= 0 {
		return 180 * time.Second
	}
	return time.Duration(c.ProviderTimeoutSec) * time.Second
}

// HasIdentityAdmin reports whether Supabase Auth admin calls can be made.
func (c *Config) HasIdentityAdmin() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceRoleKey != ""
}
