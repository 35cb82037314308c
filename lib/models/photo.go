package models

import (
	"path/filepath"
	"strings"
)

var photoMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".webp": "image/webp",
	".heic": "image/heic",
}

// ValidatePhotoType checks if the file extension is an accepted image type
func ValidatePhotoType(fileName string) bool {
	_, ok := photoMimeTypes[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// GetMimeType returns the MIME type for a file based on its extension
func GetMimeType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".pdf" {
		return "application/pdf"
	}
	if mimeType, exists := photoMimeTypes[ext]; exists {
		return mimeType
	}
	return "application/octet-stream"
}

// CleanFileName keeps only the base name and replaces spaces so the name is safe inside an object key
func CleanFileName(fileName string) string {
	base := filepath.Base(strings.TrimSpace(strings.ReplaceAll(fileName, "\\", "/")))
	if base == "." || base == "/" {
		base = "foto"
	}
	return strings.ReplaceAll(base, " ", "_")
}

// ResolvedContentType returns the declared content type, or the one implied by the file name
func (p PhotoFile) ResolvedContentType() string {
	if strings.TrimSpace(p.ContentType) != "" {
		return p.ContentType
	}
	return GetMimeType(p.FileName)
}
