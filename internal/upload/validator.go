package upload

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MaxFileSize is the global per-file size cap
	MaxFileSize = 10 * 1024 * 1024
	// MaxFiles is the maximum number of files per upload batch
	MaxFiles = 5
)

// FileInfo describes a file for validation without touching its content
type FileInfo struct {
	Name string
	Size int64
	MIME string
}

// typeConfig registers the extensions, MIME types and size cap of one
// document type. Matching wins in declaration order; OTHER is the catch-all.
type typeConfig struct {
	name       string
	extensions []string
	mimeTypes  []string
	maxSize    int64
}

var fileTypes = []typeConfig{
	{
		name:       "PDF",
		extensions: []string{".pdf"},
		mimeTypes:  []string{"application/pdf"},
		maxSize:    10 * 1024 * 1024,
	},
	{
		name:       "DOCX",
		extensions: []string{".docx", ".doc"},
		mimeTypes: []string{
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/msword",
		},
		maxSize: 10 * 1024 * 1024,
	},
	{
		name:       "TXT",
		extensions: []string{".txt"},
		mimeTypes:  []string{"text/plain"},
		maxSize:    5 * 1024 * 1024,
	},
	{
		name:       "IMAGE",
		extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"},
		mimeTypes:  []string{"image/jpeg", "image/png", "image/gif", "image/bmp", "image/webp"},
		maxSize:    10 * 1024 * 1024,
	},
}

var otherType = typeConfig{name: "OTHER", maxSize: 10 * 1024 * 1024}

// FileType classifies a file by extension or MIME type
func FileType(f FileInfo) string {
	return classify(f).name
}

func classify(f FileInfo) typeConfig {
	ext := strings.ToLower(fileExt(f.Name))
	mime := strings.ToLower(f.MIME)

	for _, cfg := range fileTypes {
		for _, e := range cfg.extensions {
			if e == ext {
				return cfg
			}
		}
		for _, m := range cfg.mimeTypes {
			if m == mime && mime != "" {
				return cfg
			}
		}
	}
	return otherType
}

// ValidateFile checks one file against the global and type-specific limits.
// It is pure and synchronous; a nil error means the file is acceptable.
func ValidateFile(f FileInfo) error {
	if f.Size > MaxFileSize {
		return fmt.Errorf("file size exceeds %s limit", FormatFileSize(MaxFileSize))
	}
	if f.Size == 0 {
		return fmt.Errorf("file is empty")
	}

	cfg := classify(f)
	if f.Size > cfg.maxSize {
		return fmt.Errorf("%s files cannot exceed %s", cfg.name, FormatFileSize(cfg.maxSize))
	}
	return nil
}

// Validate checks a batch of files, failing fast on the first problem.
// Per-file errors are annotated with the offending file's name.
func Validate(files []FileInfo) error {
	if len(files) > MaxFiles {
		return fmt.Errorf("cannot upload more than %d files at once", MaxFiles)
	}
	for _, f := range files {
		if err := ValidateFile(f); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	return nil
}

// fileExt returns the extension including the dot, or "" when there is none
func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i != -1 {
		return name[i:]
	}
	return ""
}

// FormatFileSize renders a byte count for humans
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	return fmt.Sprintf("%s %s", trimZeros(value), units[i])
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
