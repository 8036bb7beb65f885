package constants

import "strings"

// AllowedExtensions holds the image extensions accepted for timetable imports.
var AllowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

// MaxVisionMBDefault caps the image size sent to a vision model.
const MaxVisionMBDefault = 10

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedImage reports whether ext names a supported image type.
func IsAllowedImage(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MimeTypeForExt returns the MIME type for a supported extension, or "" if unsupported.
func MimeTypeForExt(ext string) string {
	return AllowedExtensions[NormalizeExt(ext)]
}

// PDFExtension marks scanned timetables that must be rasterized before OCR.
const PDFExtension = "pdf"

// IsPDF reports whether ext is a PDF extension.
func IsPDF(ext string) bool {
	return NormalizeExt(ext) == PDFExtension
}
