package helpers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConvertToSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"simple string", "Simple Test", "simple_test"},
		{"with colon", "Test: Colon", "test-colon"},
		{"mixed case", "MixedCase Slug", "mixedcase_slug"},
		{"invalid characters stripped", "File*Name?Is\"Bad!", "filenameisbad"},
		{"repeated dashes collapsed", "double--dash", "double-dash"},
		{"repeated underscores collapsed", "double__underscore", "double_underscore"},
		{"leading and trailing separators trimmed", "-_Leading Trailing_-_", "leading_trailing"},
		{"already valid", "valid-slug_1.0", "valid-slug_1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertToSlug(tt.input); got != tt.want {
				t.Errorf("ConvertToSlug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBytesToSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes uint64
		want  string
	}{
		{"zero bytes", 0, "0B"},
		{"bytes", 500, "500.00B"},
		{"kilobytes", 1024, "1.00KB"},
		{"kilobytes fractional", 1536, "1.50KB"},
		{"megabytes", 1024 * 1024, "1.00MB"},
		{"gigabytes", 1024 * 1024 * 1024, "1.00GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BytesToSize(tt.bytes); got != tt.want {
				t.Errorf("BytesToSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestCheckAndMakeDir(t *testing.T) {
	base := t.TempDir()

	nested := filepath.Join(base, "a", "b", "c")
	if !CheckAndMakeDir(nested) {
		t.Fatalf("CheckAndMakeDir(%q) = false, want true", nested)
	}
	if info, err := os.Stat(nested); err != nil || !info.IsDir() {
		t.Fatalf("expected %q to exist as a directory, err=%v", nested, err)
	}

	// Calling it again on an already-existing directory should still succeed.
	if !CheckAndMakeDir(nested) {
		t.Errorf("CheckAndMakeDir on an existing directory should succeed")
	}

	// A path that collides with an existing file should fail.
	filePath := filepath.Join(base, "not_a_dir")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to seed test file: %v", err)
	}
	if CheckAndMakeDir(filePath) {
		t.Errorf("CheckAndMakeDir(%q) = true, want false (path is a file)", filePath)
	}
}
