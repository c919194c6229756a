package schema

import (
	"path/filepath"
	"strings"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
)

// DefaultMaxFileSize applies to file fields that do not set maxFileSize (5 MiB).
const DefaultMaxFileSize int64 = 5 << 20

// FileCategory is one of the coarse file kinds an admin can allow on a file field.
type FileCategory string

const (
	FilePDF   FileCategory = "pdf"
	FileDoc   FileCategory = "doc"
	FileImage FileCategory = "image"
	FileExcel FileCategory = "excel"
)

type categoryRule struct {
	exts  []string
	mimes []string
}

var categoryRules = map[FileCategory]categoryRule{
	FilePDF:   {exts: []string{".pdf"}, mimes: []string{"application/pdf"}},
	FileDoc:   {exts: []string{".doc", ".docx"}},
	FileImage: {exts: []string{".jpg", ".jpeg", ".png", ".gif"}, mimes: []string{"image/jpeg", "image/png", "image/gif"}},
	FileExcel: {exts: []string{".xls", ".xlsx"}},
}

func (c FileCategory) Valid() bool {
	_, ok := categoryRules[c]
	return ok
}

// Matches reports whether a file with the given name and MIME type belongs to the category.
func (c FileCategory) Matches(fileName, mimeType string) bool {
	rule, ok := categoryRules[c]
	if !ok {
		return false
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, e := range rule.exts {
		if ext == e {
			return true
		}
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	for _, m := range rule.mimes {
		if mimeType == m {
			return true
		}
	}
	return false
}

// Upload is the file field kind. An empty Accepted list allows any file type.
type Upload struct {
	Accepted []FileCategory
	MaxSize  int64
}

func (Upload) Type() Type { return TypeFile }

func (u Upload) define(d *Definition) {
	d.AcceptedFileTypes = append([]FileCategory(nil), u.Accepted...)
	d.MaxFileSize = u.MaxSize
}

// Accepts reports whether the file type is allowed, ignoring size.
func (u Upload) Accepts(fileName, mimeType string) bool {
	if len(u.Accepted) == 0 {
		return true
	}
	for _, c := range u.Accepted {
		if c.Matches(fileName, mimeType) {
			return true
		}
	}
	return false
}

// Check validates one uploaded file against the field. A file of exactly MaxSize bytes
// is accepted.
func (u Upload) Check(fileName, mimeType string, size int64) error {
	if size > u.MaxSize {
		return apperr.FileTooLarge("file %q is %d bytes, the limit is %d", fileName, size, u.MaxSize)
	}
	if !u.Accepts(fileName, mimeType) {
		return apperr.InvalidAnswer("file %q is not an accepted type", fileName)
	}
	return nil
}

func buildUpload(label string, accepted []FileCategory, maxSize int64) (Upload, error) {
	if maxSize < 0 {
		return Upload{}, apperr.Validation("field %q has a negative maxFileSize", label)
	}
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}
	u := Upload{MaxSize: maxSize}
	seen := make(map[FileCategory]bool, len(accepted))
	for _, c := range accepted {
		c = FileCategory(strings.ToLower(strings.TrimSpace(string(c))))
		if !c.Valid() {
			return Upload{}, apperr.Validation("field %q accepts unknown file type %q", label, c)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		u.Accepted = append(u.Accepted, c)
	}
	return u, nil
}
