// config_validation.go - Startup validation of the service configuration.
//
// Collects every problem in one pass so a misconfigured deployment fails
// fast with the full list instead of one error per restart.
package server

import (
	"fmt"
	"strconv"
	"strings"

	"rdrive-upload/internal/store"
)

// ConfigValidationError represents a configuration validation error.
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// ConfigValidator accumulates validation errors.
type ConfigValidator struct {
	errors []ConfigValidationError
}

// NewConfigValidator returns an empty validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		errors: make([]ConfigValidationError, 0),
	}
}

// AddError records a problem with field.
func (v *ConfigValidator) AddError(field, message string) {
	v.errors = append(v.errors, ConfigValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors reports whether any problem was recorded.
func (v *ConfigValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the recorded problems in the order they were found.
func (v *ConfigValidator) Errors() []ConfigValidationError {
	return v.errors
}

// ErrorString returns a formatted string of all errors.
func (v *ConfigValidator) ErrorString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d error(s):\n", len(v.errors)))
	for i, err := range v.errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidateRequired records an error when value is empty.
func (v *ConfigValidator) ValidateRequired(key, value string) {
	if value == "" {
		v.AddError(key, "required value not set")
	}
}

// ValidateAddr checks a listen address of the form "host:port" or ":port".
func (v *ConfigValidator) ValidateAddr(key, value string) {
	if value == "" {
		return
	}

	i := strings.LastIndex(value, ":")
	if i < 0 {
		v.AddError(key, "must be host:port or :port")
		return
	}

	port, err := strconv.Atoi(value[i+1:])
	if err != nil {
		v.AddError(key, "port must be a number")
		return
	}
	if port < 0 || port > 65535 {
		v.AddError(key, "port must be between 0 and 65535")
	}
}

// ValidateEnum validates that a value is one of allowed options.
func (v *ConfigValidator) ValidateEnum(key, value string, allowed []string) {
	for _, opt := range allowed {
		if value == opt {
			return
		}
	}

	v.AddError(key, fmt.Sprintf("must be one of: %s (got: %s)", strings.Join(allowed, ", "), value))
}

// ValidateNonNegative validates a parsed integer setting.
func (v *ConfigValidator) ValidateNonNegative(key string, value int64) {
	if value < 0 {
		v.AddError(key, "must not be negative")
	}
}

// Validate reports every problem with cfg at once.
func (cfg Config) Validate() error {
	v := NewConfigValidator()

	v.ValidateRequired("APP_NAME", cfg.AppName)
	v.ValidateAddr("ADDR", cfg.Addr)
	v.ValidateNonNegative("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	v.ValidateEnum("STORAGE_BACKEND", cfg.Storage.Backend, []string{store.BackendLocal, store.BackendMinio})
	switch cfg.Storage.Backend {
	case store.BackendLocal:
		v.ValidateRequired("UPLOAD_DIR", cfg.Storage.Dir)
	case store.BackendMinio:
		v.ValidateRequired("S3_ENDPOINT", cfg.Storage.Endpoint)
		v.ValidateRequired("S3_ACCESS_KEY", cfg.Storage.AccessKey)
		v.ValidateRequired("S3_SECRET_KEY", cfg.Storage.SecretKey)
		v.ValidateRequired("S3_BUCKET", cfg.Storage.Bucket)
	}

	v.ValidateEnum("LOG_FORMAT", cfg.Log.Format, []string{"", "json", "text"})
	v.ValidateEnum("LOG_LEVEL", cfg.Log.Level, []string{"", "debug", "info", "warn", "error"})

	if v.HasErrors() {
		return fmt.Errorf("%s", v.ErrorString())
	}
	return nil
}
