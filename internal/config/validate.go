package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.PasswordHashCost < 4 || c.Auth.PasswordHashCost > 31 {
		return fmt.Errorf("auth.password_hash_cost must be in [4, 31] (got %d)", c.Auth.PasswordHashCost)
	}
	if c.Auth.MinPasswordLen < 1 {
		return fmt.Errorf("auth.min_password_len must be > 0 (got %d)", c.Auth.MinPasswordLen)
	}

	if err := c.Upload.validate(); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	if c.Events.BufferSize <= 0 {
		return fmt.Errorf("events.buffer_size must be > 0 (got %d)", c.Events.BufferSize)
	}

	return nil
}

func (u *UploadConfig) validate() error {
	if u.MaxSizeBytes <= 0 {
		return fmt.Errorf("max_size_bytes must be > 0 (got %d)", u.MaxSizeBytes)
	}
	if len(u.AllowedExtensions()) == 0 {
		return fmt.Errorf("allowed_extensions must not be empty")
	}
	if len(u.AllowedMIMETypes()) == 0 {
		return fmt.Errorf("allowed_mime_types must not be empty")
	}
	return nil
}

// AllowedExtensions parses the comma-separated extension list,
// lower-cased and trimmed. An empty string yields a nil slice.
func (u *UploadConfig) AllowedExtensions() []string {
	return splitCommaList(u.AllowedExtensionsRaw)
}

// AllowedMIMETypes parses the comma-separated MIME type list,
// lower-cased and trimmed. An empty string yields a nil slice.
func (u *UploadConfig) AllowedMIMETypes() []string {
	return splitCommaList(u.AllowedMIMETypesRaw)
}

func splitCommaList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
