package service

import (
	"path/filepath"
	"strings"
)

var extensionCategories = map[string]string{
	"xlsx": "xlsx",
	"xls":  "xlsx",
	"pdf":  "pdf",
	"csv":  "csv",
	"doc":  "doc/docx",
	"docx": "doc/docx",
	"ppt":  "ppt/pptx",
	"pptx": "ppt/pptx",
	"txt":  "txt",
	"html": "html",
	"xml":  "xml",
	"json": "json",
	"jpeg": "jpeg/jpg",
	"jpg":  "jpeg/jpg",
	"png":  "png",
	"gif":  "gif",
	"mp3":  "mp3",
	"wav":  "wav",
	"mp4":  "mp4",
}

// Categorize maps a filename to its document category. Unknown extensions are
// never an error, they land in "unknown".
func Categorize(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if category, ok := extensionCategories[ext]; ok {
		return category
	}
	return "unknown"
}
