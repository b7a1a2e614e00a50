package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"report.pdf", "pdf"},
		{"report.PDF", "pdf"},
		{"sheet.xls", "xlsx"},
		{"sheet.xlsx", "xlsx"},
		{"letter.doc", "doc/docx"},
		{"letter.docx", "doc/docx"},
		{"slides.pptx", "ppt/pptx"},
		{"photo.jpg", "jpeg/jpg"},
		{"notes.txt", "txt"},
		{"data.json", "json"},
		{"track.mp3", "mp3"},
		{"archive.tar.gz", "unknown"},
		{"binary.exe", "unknown"},
		{"noextension", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Categorize(tt.name), "file %q", tt.name)
	}
}
