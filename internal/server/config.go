package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"rdrive-upload/internal/store"
)

const defaultAppName = "rdrive-file-upload-api"

// LogConfig selects logger output.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text; empty picks by Env
	Env    string // "production" forces json
}

// Config is built once at startup and passed to New. It is never mutated
// afterwards.
type Config struct {
	AppName string
	Version string
	Addr    string // e.g. ":8080"

	// APIKey enables the X-API-Key check when non-empty.
	APIKey string
	// AllowedOrigins restricts CORS; empty allows any origin.
	AllowedOrigins []string
	// MaxUploadBytes caps request bodies on upload routes; 0 means no cap.
	MaxUploadBytes int64

	Storage store.Options
	Log     LogConfig
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom reads configuration through getenv, which lets tests pass a
// map lookup instead of touching the process environment.
func LoadConfigFrom(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	var maxUpload int64
	if raw := getenv("MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse MAX_UPLOAD_BYTES: %w", err)
		}
		maxUpload = n
	}

	cfg := Config{
		AppName:        get("APP_NAME", defaultAppName),
		Version:        get("APP_VERSION", "1.0.0"),
		Addr:           get("ADDR", ":8080"),
		APIKey:         getenv("API_KEY"),
		AllowedOrigins: ParseOrigins(get("ALLOWED_ORIGINS", "*")),
		MaxUploadBytes: maxUpload,
		Storage: store.Options{
			Backend:   strings.ToLower(get("STORAGE_BACKEND", store.BackendLocal)),
			Dir:       get("UPLOAD_DIR", "uploads"),
			Endpoint:  getenv("S3_ENDPOINT"),
			AccessKey: getenv("S3_ACCESS_KEY"),
			SecretKey: getenv("S3_SECRET_KEY"),
			Bucket:    getenv("S3_BUCKET"),
			Prefix:    get("S3_PREFIX", "uploads/"),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL"),
			Format: getenv("LOG_FORMAT"),
			Env:    getenv("APP_ENV"),
		},
	}
	return cfg, cfg.Validate()
}

// ParseOrigins splits a comma-separated origin list, trimming blanks. A
// lone "*" (or nothing at all) yields nil, meaning any origin.
func ParseOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if o == "*" {
			return nil
		}
		out = append(out, o)
	}
	return out
}
