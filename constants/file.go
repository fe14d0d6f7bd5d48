package constants

import "strings"

// Formats for the format field in extract_jobs.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// MIMEPDF is the only non-image content type the pipeline accepts.
const MIMEPDF = "application/pdf"

// AllowedExtensions holds the file extensions accepted for ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
	"webp": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ContentTypeForExt maps a normalized extension to its declared MIME type.
// Returns "" for extensions the pipeline does not handle.
func ContentTypeForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return MIMEPDF
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "tif", "tiff":
		return "image/tiff"
	case "bmp":
		return "image/bmp"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

// FormatForContentType maps a declared content type to a backend format.
// Exactly application/pdf and image/* are supported; everything else
// returns "".
func FormatForContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch {
	case ct == MIMEPDF:
		return PDF
	case strings.HasPrefix(ct, "image/"):
		return IMAGE
	default:
		return ""
	}
}
