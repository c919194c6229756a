// Package storage persists uploaded files. Every stored object gets a fresh name, so
// concurrent submissions never write to the same object.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// FileStore saves and serves uploaded files. The returned path is opaque to callers and
// is what Open and Remove expect back.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
	".txt":  "text/plain",
}

// DetectContentType guesses a MIME type from the file extension, for parts sent
// without one.
func DetectContentType(fileName string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return ct
	}
	return "application/octet-stream"
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewName returns a unique storage name that keeps a readable form of the original.
func NewName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "file"
	}
	if len(base) > 100 {
		base = base[len(base)-100:]
	}
	return fmt.Sprintf("%s_%s", uuid.New().String(), base)
}
