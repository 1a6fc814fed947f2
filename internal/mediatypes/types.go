package mediatypes

import (
	"path/filepath"
	"strings"
)

// Format names a raster container. Values match the names reported by the
// content sniffer so both sides can be compared directly.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatBMP     Format = "bmp"
	FormatWEBP    Format = "webp"
	FormatSVG     Format = "svg"
	FormatTIFF    Format = "tiff"
	FormatICO     Format = "ico"
	FormatUnknown Format = "unknown"
)

// ImageExtensions is the fixed set of extensions listed as images.
// Keys are lowercase and include the leading dot.
var ImageExtensions = map[string]Format{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".gif":  FormatGIF,
	".bmp":  FormatBMP,
	".webp": FormatWEBP,
	".svg":  FormatSVG,
	".tiff": FormatTIFF,
	".ico":  FormatICO,
}

// MimeTypes maps formats to their MIME types.
var MimeTypes = map[Format]string{
	FormatJPEG: "image/jpeg",
	FormatPNG:  "image/png",
	FormatGIF:  "image/gif",
	FormatBMP:  "image/bmp",
	FormatWEBP: "image/webp",
	FormatSVG:  "image/svg+xml",
	FormatTIFF: "image/tiff",
	FormatICO:  "image/x-icon",
}

// AllFormats lists every known format, used to pre-populate metric labels.
var AllFormats = []Format{
	FormatJPEG, FormatPNG, FormatGIF, FormatBMP, FormatWEBP,
	FormatSVG, FormatTIFF, FormatICO, FormatUnknown,
}

// Extension returns the lowercase extension of name including the dot.
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsImageFile reports whether name carries a recognized image extension.
// The match is case-insensitive.
func IsImageFile(name string) bool {
	_, ok := ImageExtensions[Extension(name)]
	return ok
}

// FormatFromName returns the format implied by name's extension.
// ".tif" is accepted here as an output alias even though listings skip it.
func FormatFromName(name string) Format {
	ext := Extension(name)
	if f, ok := ImageExtensions[ext]; ok {
		return f
	}
	if ext == ".tif" {
		return FormatTIFF
	}
	return FormatUnknown
}

// FormatFromSniffed normalizes an extension reported by a content sniffer
// ("jpg", "tif", ...) into a Format.
func FormatFromSniffed(ext string) Format {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return FormatJPEG
	case "tif", "tiff":
		return FormatTIFF
	case "png", "gif", "bmp", "webp", "ico", "svg":
		return Format(strings.ToLower(ext))
	default:
		return FormatUnknown
	}
}

// GetMimeType returns the MIME type for format, or application/octet-stream.
func GetMimeType(f Format) string {
	if mime, ok := MimeTypes[f]; ok {
		return mime
	}
	return "application/octet-stream"
}
