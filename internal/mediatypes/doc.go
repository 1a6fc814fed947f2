// Package mediatypes holds the dependency-free vocabulary of the image
// pipeline: the recognized extension set, format names and MIME types.
//
// Extension checks are case-insensitive while the original filename casing is
// always preserved by callers:
//
//	mediatypes.IsImageFile("a.PNG")         // true
//	mediatypes.FormatFromName("scan.TIFF")  // FormatTIFF
package mediatypes
