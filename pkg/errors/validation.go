package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// regionIDRegex matches region identifiers such as "A1" or "north_coast".
var regionIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateRegionID validates a region identifier.
// Identifiers are used as cache-key components, URL path segments and legend
// labels, so they are restricted to a conservative character set.
func ValidateRegionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidRegion, "region id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidRegion, "region id too long (max 64 characters)")
	}
	if !regionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidRegion, "invalid region id: %q", id)
	}
	return nil
}

// ValidatePath validates a local asset path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !IsURL(rawURL) {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// IsURL reports whether s looks like an http(s) URL rather than a file path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ValidateSource validates an asset source, which may be a URL or a path.
func ValidateSource(src string) error {
	if IsURL(src) {
		return ValidateURL(src)
	}
	return ValidatePath(src)
}
