// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultDataDir is where records are stored when nothing else is configured.
const DefaultDataDir = "candidate_data"

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	// Storage
	DataDir     string `json:"data_dir,omitempty"`     // Root directory of the record store
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for `candidates sync`

	// Language model
	Provider    string `json:"provider,omitempty" validate:"omitempty,oneof=gemini vertex"`
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	Model       string `json:"model,omitempty"`        // Overrides both model tiers
	GCPProject  string `json:"gcp_project,omitempty"`  // Vertex AI project
	GCPLocation string `json:"gcp_location,omitempty"` // Vertex AI location

	// Export archive (S3-compatible)
	ArchiveBucket    string `json:"archive_bucket,omitempty" validate:"required_with=ArchiveEndpoint"`
	ArchiveEndpoint  string `json:"archive_endpoint,omitempty" validate:"omitempty,url"`
	ArchiveRegion    string `json:"archive_region,omitempty"`
	ArchiveAccessKey string `json:"archive_access_key,omitempty" validate:"required_with=ArchiveSecretKey"`
	ArchiveSecretKey string `json:"archive_secret_key,omitempty" validate:"required_with=ArchiveAccessKey"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		DataDir:          os.Getenv("TALENTSCOUT_DATA_DIR"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Provider:         os.Getenv("LLM_PROVIDER"),
		APIKey:           os.Getenv("GEMINI_API_KEY"),
		Model:            os.Getenv("LLM_MODEL"),
		GCPProject:       os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GCPLocation:      os.Getenv("GOOGLE_CLOUD_LOCATION"),
		ArchiveBucket:    os.Getenv("ARCHIVE_BUCKET"),
		ArchiveEndpoint:  os.Getenv("ARCHIVE_ENDPOINT"),
		ArchiveRegion:    os.Getenv("ARCHIVE_REGION"),
		ArchiveAccessKey: os.Getenv("ARCHIVE_ACCESS_KEY"),
		ArchiveSecretKey: os.Getenv("ARCHIVE_SECRET_KEY"),
	}
}

// validate reports json key names in its field errors.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})
	return v
}()

// Validate checks that the configuration has valid values.
// Only the first failure is reported.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("config error: %w", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("config error: '%s' must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Errorf("config error: '%s' must be a valid URL", fe.Field())
	case "required_with":
		return fmt.Errorf("config error: '%s' is required when '%s' is set", fe.Field(), jsonName(c, fe.Param()))
	default:
		return fmt.Errorf("config error: '%s' failed '%s' check", fe.Field(), fe.Tag())
	}
}

// jsonName maps a Go field name to its json key.
func jsonName(c *Config, field string) string {
	f, ok := reflect.TypeOf(*c).FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return name
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to layer config file values over environment values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&result.DataDir, defaults.DataDir)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.Provider, defaults.Provider)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.Model, defaults.Model)
	fill(&result.GCPProject, defaults.GCPProject)
	fill(&result.GCPLocation, defaults.GCPLocation)
	fill(&result.ArchiveBucket, defaults.ArchiveBucket)
	fill(&result.ArchiveEndpoint, defaults.ArchiveEndpoint)
	fill(&result.ArchiveRegion, defaults.ArchiveRegion)
	fill(&result.ArchiveAccessKey, defaults.ArchiveAccessKey)
	fill(&result.ArchiveSecretKey, defaults.ArchiveSecretKey)

	if result.DataDir == "" {
		result.DataDir = DefaultDataDir
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ArchiveEnabled reports whether an export archive bucket is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveBucket != ""
}
