package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
)

func TestUploadCheck_SizeBoundary(t *testing.T) {
	for _, n := range []int64{1, 1024, DefaultMaxFileSize} {
		u := Upload{MaxSize: n}

		assert.NoError(t, u.Check("a.bin", "application/octet-stream", n), "size %d", n)
		assert.ErrorIs(t, u.Check("a.bin", "application/octet-stream", n+1), apperr.ErrFileTooLarge, "size %d", n+1)
	}
}

func TestUploadCheck_AcceptedTypes(t *testing.T) {
	tests := []struct {
		accepted []FileCategory
		name     string
		mime     string
		ok       bool
	}{
		{nil, "anything.zip", "application/zip", true},
		{[]FileCategory{FilePDF}, "cv.PDF", "", true},
		{[]FileCategory{FilePDF}, "cv", "application/pdf", true},
		{[]FileCategory{FilePDF}, "cv.docx", "", false},
		{[]FileCategory{FileDoc}, "cv.docx", "", true},
		{[]FileCategory{FileDoc}, "cv.doc", "", true},
		{[]FileCategory{FileImage}, "me", "image/png", true},
		{[]FileCategory{FileImage}, "me.gif", "", true},
		{[]FileCategory{FileImage}, "me.bmp", "image/bmp", false},
		{[]FileCategory{FileExcel}, "sheet.xlsx", "", true},
		{[]FileCategory{FileExcel, FilePDF}, "sheet.xls", "", true},
		{[]FileCategory{FileExcel}, "sheet.csv", "text/csv", false},
	}
	for _, tt := range tests {
		u := Upload{Accepted: tt.accepted, MaxSize: DefaultMaxFileSize}
		err := u.Check(tt.name, tt.mime, 10)
		if tt.ok {
			assert.NoError(t, err, "%s %s", tt.name, tt.mime)
		} else {
			assert.ErrorIs(t, err, apperr.ErrInvalidAnswer, "%s %s", tt.name, tt.mime)
		}
	}
}

func TestBuildUpload_NormalizesCategories(t *testing.T) {
	f := mustBuild(t, Definition{ID: 1, Label: "CV", Type: TypeFile, AcceptedFileTypes: []FileCategory{" PDF", "pdf", "doc"}})

	u, ok := f.Upload()
	assert.True(t, ok)
	assert.Equal(t, []FileCategory{FilePDF, FileDoc}, u.Accepted)
	assert.Equal(t, DefaultMaxFileSize, u.MaxSize)
}
