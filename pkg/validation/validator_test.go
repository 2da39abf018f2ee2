package validation

import (
	"testing"

	apperrors "go-tracefinder/internal/errors"
)

func TestValidateImageURL_ValidURLs(t *testing.T) {
	validator := NewURLValidator()

	validURLs := []string{
		"http://example.com/scan.jpg",
		"https://example.com/scan.png",
		"https://evidence.example.com/case/42/page-1.tiff",
		"http://192.168.1.1/scan.jpg",
	}

	for _, u := range validURLs {
		if err := validator.ValidateImageURL(u); err != nil {
			t.Errorf("expected %s to pass validation, got error: %v", u, err)
		}
	}
}

func TestValidateImageURL_InvalidURLs(t *testing.T) {
	validator := NewURLValidator()

	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"missing host", "https:///scan.jpg"},
		{"disallowed scheme", "ftp://example.com/scan.jpg"},
		{"no scheme", "example.com/scan.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateImageURL(tt.url)
			if err == nil {
				t.Fatalf("expected %q to fail validation", tt.url)
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidateImageURL_HostRestrictions(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"https"}, []string{"evidence.example.com"})

	if err := validator.ValidateImageURL("https://evidence.example.com/scan.png"); err != nil {
		t.Errorf("expected allowed host to pass, got: %v", err)
	}
	if err := validator.ValidateImageURL("https://other.example.com/scan.png"); err == nil {
		t.Error("expected disallowed host to fail")
	}
	if err := validator.ValidateImageURL("http://evidence.example.com/scan.png"); err == nil {
		t.Error("expected disallowed scheme to fail")
	}
}

func TestValidateUploadName(t *testing.T) {
	valid := []string{"scan.png", "page.JPG", "doc.jpeg", "archive.tiff", "old.tif", "flat.bmp"}
	for _, name := range valid {
		if err := ValidateUploadName(name); err != nil {
			t.Errorf("expected %q to be accepted, got: %v", name, err)
		}
	}

	invalid := []string{"scan.pdf", "page.gif.exe", "noext", "script.sh"}
	for _, name := range invalid {
		if err := ValidateUploadName(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}
