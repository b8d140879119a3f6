// validation.go - Configuration validation.
//
// Collects every problem before failing so a misconfigured deployment is
// reported in one pass.
package config

import (
	"fmt"
	"strings"
)

// ValidationError describes a single invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// Validator accumulates validation errors.
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{errors: make([]ValidationError, 0)}
}

// AddError adds a validation error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// ErrorString returns a formatted string of all errors.
func (v *Validator) ErrorString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d error(s):\n", len(v.errors)))
	for i, err := range v.errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidateRequired records an error when value is blank.
func (v *Validator) ValidateRequired(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "must not be empty")
	}
}

// ValidatePort checks the 0-65535 range. Port 0 asks the kernel for an
// ephemeral port, which is what tests use.
func (v *Validator) ValidatePort(field string, port int) {
	if port < 0 || port > 65535 {
		v.AddError(field, fmt.Sprintf("port must be between 0 and 65535 (got %d)", port))
	}
}

// ValidatePositive records an error when n is not strictly positive.
func (v *Validator) ValidatePositive(field string, n int64) {
	if n <= 0 {
		v.AddError(field, fmt.Sprintf("must be a positive integer (got %d)", n))
	}
}

// ValidateEnum validates that a value is one of allowed options.
func (v *Validator) ValidateEnum(field, value string, allowed []string) {
	for _, opt := range allowed {
		if value == opt {
			return
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s (got: %s)", strings.Join(allowed, ", "), value))
}

// Validate checks every setting and returns all problems at once.
func (c *Config) Validate() error {
	v := NewValidator()

	v.ValidatePort("server.port", c.Server.Port)
	v.ValidateRequired("storage.dir", c.Storage.Dir)
	v.ValidateRequired("storage.url_prefix", c.Storage.URLPrefix)
	v.ValidatePositive("storage.max_upload_bytes", c.Storage.MaxUploadBytes)
	v.ValidateRequired("static.root", c.Static.Root)
	v.ValidateEnum("log.level", c.Log.Level, []string{"debug", "info", "warn", "error"})
	v.ValidateEnum("log.format", c.Log.Format, []string{"json", "text"})
	v.ValidateEnum("env", c.Env, []string{"development", "staging", "production"})

	if v.HasErrors() {
		return fmt.Errorf("%s", v.ErrorString())
	}
	return nil
}
