package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// MaxKeyLength bounds store keys.
const MaxKeyLength = 256

// ValidateKey checks a journey store key. Keys become file names, Redis
// keys, document IDs and URL path segments, so they must be non-empty, at
// most [MaxKeyLength] bytes, and free of control characters, path
// separators and "..".
func ValidateKey(key string) error {
	switch {
	case key == "":
		return New(ErrCodeInvalidKey, "key cannot be empty")
	case len(key) > MaxKeyLength:
		return New(ErrCodeInvalidKey, "key too long (max %d characters)", MaxKeyLength)
	case strings.Contains(key, ".."):
		return New(ErrCodeInvalidKey, "key %q must not contain \"..\"", key)
	}
	for _, r := range key {
		switch {
		case unicode.IsControl(r):
			return New(ErrCodeInvalidKey, "key contains control character %U", r)
		case r == '/' || r == '\\':
			return New(ErrCodeInvalidKey, "key %q must not contain %q", key, r)
		}
	}
	return nil
}

// ValidateEndpoint checks a generator endpoint: an absolute http or https
// URL with a host.
func ValidateEndpoint(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidConfig, "generator endpoint cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "generator endpoint %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidConfig, "generator endpoint %q must use http or https", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidConfig, "generator endpoint %q has no host", raw)
	}
	return nil
}
