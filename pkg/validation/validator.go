// Package validation checks incoming uploads and remote URLs before they
// reach the analysis pipeline.
package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"go-tracefinder/internal/config"
	apperrors "go-tracefinder/internal/errors"
)

// URLValidator restricts which remote images may be fetched.
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator creates a validator accepting http and https from any
// host.
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
	}
}

// NewURLValidatorWithOptions creates a validator with custom scheme and
// host restrictions. An empty host list allows every host.
func NewURLValidatorWithOptions(schemes, hosts []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateImageURL reports whether the URL may be fetched for analysis.
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}
	if !contains(v.allowedSchemes, parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}
	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}
	if len(v.allowedHosts) > 0 && !contains(v.allowedHosts, parsedURL.Host) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}
	return nil
}

// ValidateUploadName checks an uploaded filename against the supported
// image formats.
func ValidateUploadName(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return apperrors.NewValidationError("filename has no extension", nil)
	}
	if !config.AllowedExtensions[ext] {
		return apperrors.NewValidationError(
			fmt.Sprintf("file type %q is not supported", ext), nil)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
