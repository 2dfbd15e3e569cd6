package server

import (
	"reflect"
	"strings"
	"testing"

	"rdrive-upload/internal/store"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfigFrom(envMap(nil))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.AppName != "rdrive-file-upload-api" {
		t.Errorf("AppName = %q", cfg.AppName)
	}
	if cfg.Storage.Dir != "uploads" || cfg.Storage.Backend != store.BackendLocal {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v, want nil (allow all)", cfg.AllowedOrigins)
	}
	if cfg.Addr != ":8080" || cfg.MaxUploadBytes != 0 || cfg.Version != "1.0.0" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	cfg, err := LoadConfigFrom(envMap(map[string]string{
		"APP_NAME":         "intake",
		"UPLOAD_DIR":       "/data/in",
		"API_KEY":          "secret",
		"ALLOWED_ORIGINS":  " https://a.example.com , ,https://b.example.com:8443 ",
		"MAX_UPLOAD_BYTES": "1048576",
		"LOG_LEVEL":        "debug",
	}))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.AppName != "intake" || cfg.Storage.Dir != "/data/in" || cfg.APIKey != "secret" {
		t.Errorf("unexpected cfg %+v", cfg)
	}
	want := []string{"https://a.example.com", "https://b.example.com:8443"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadConfig_ProcessEnv(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "from-env")
	t.Setenv("API_KEY", "k")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Dir != "from-env" || cfg.APIKey != "k" {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad max bytes", map[string]string{"MAX_UPLOAD_BYTES": "lots"}, "MAX_UPLOAD_BYTES"},
		{"negative max bytes", map[string]string{"MAX_UPLOAD_BYTES": "-1"}, "MAX_UPLOAD_BYTES"},
		{"bad backend", map[string]string{"STORAGE_BACKEND": "ftp"}, "STORAGE_BACKEND"},
		{"minio incomplete", map[string]string{"STORAGE_BACKEND": "minio"}, "S3_BUCKET"},
		{"bad addr", map[string]string{"ADDR": "8080"}, "ADDR"},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFrom(envMap(tt.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}

func TestConfigValidator_CollectsAll(t *testing.T) {
	cfg := Config{
		Addr:    "nope",
		Storage: store.Options{Backend: store.BackendLocal},
		Log:     LogConfig{Format: "xml"},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, field := range []string{"APP_NAME", "ADDR", "UPLOAD_DIR", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error missing %s: %s", field, err)
		}
	}
}

func TestConfigValidator_Errors(t *testing.T) {
	v := NewConfigValidator()
	v.ValidateRequired("APP_NAME", "")
	v.ValidateAddr("ADDR", ":http")
	v.ValidateNonNegative("MAX_UPLOAD_BYTES", -5)
	v.ValidateEnum("LOG_FORMAT", "json", []string{"json", "text"})

	want := []ConfigValidationError{
		{Field: "APP_NAME", Message: "required value not set"},
		{Field: "ADDR", Message: "port must be a number"},
		{Field: "MAX_UPLOAD_BYTES", Message: "must not be negative"},
	}
	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	if got := v.Errors(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Errors() = %+v, want %+v", got, want)
	}
}

func TestLoadConfig_AnyOrigin(t *testing.T) {
	cfg, err := LoadConfigFrom(envMap(map[string]string{
		"ALLOWED_ORIGINS": "null, app://desktop, example.com",
	}))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	want := []string{"null", "app://desktop", "example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"*", nil},
		{" , ,", nil},
		{"https://a.com", []string{"https://a.com"}},
		{"https://a.com,*", nil},
		{"https://a.com, https://b.com", []string{"https://a.com", "https://b.com"}},
	}
	for _, tt := range tests {
		if got := ParseOrigins(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseOrigins(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
