// Package utils holds small shared helpers.
package utils

import (
	"strings"
	"sync"
)

// defaultMimeType is returned for unknown extensions.
const defaultMimeType = "application/octet-stream"

var (
	mimeTypesOnce sync.Once
	mimeTypes     map[string]string
)

// loadMimeTypes populates the extension table once. The table covers the
// ebook formats Calibre stores plus the image types used for covers; the
// stdlib mime package cannot be relied on for these across platforms.
func loadMimeTypes() {
	mimeTypes = map[string]string{
		"azw":   "application/x-mobipocket-ebook",
		"azw3":  "application/x-mobi8-ebook",
		"cbr":   "application/x-cbr",
		"cbz":   "application/x-cbz",
		"djvu":  "image/vnd.djvu",
		"doc":   "application/msword",
		"epub":  "application/epub+zip",
		"fb2":   "text/fb2+xml",
		"gif":   "image/gif",
		"htm":   "text/html",
		"html":  "text/html",
		"ico":   "image/vnd.microsoft.icon",
		"jpeg":  "image/jpeg",
		"jpg":   "image/jpeg",
		"lit":   "application/x-ms-reader",
		"lrf":   "application/x-sony-bbeb",
		"mobi":  "application/x-mobipocket-ebook",
		"odt":   "application/vnd.oasis.opendocument.text",
		"pdb":   "application/vnd.palm",
		"pdf":   "application/pdf",
		"png":   "image/png",
		"prc":   "application/x-mobipocket-ebook",
		"rtf":   "application/rtf",
		"txt":   "text/plain",
		"zip":   "application/zip",
	}
}

// MimeType maps a file extension or format name (case-insensitive, no
// leading dot) onto its MIME type, defaulting to application/octet-stream.
func MimeType(ext string) string {
	mimeTypesOnce.Do(loadMimeTypes)
	if t, ok := mimeTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return defaultMimeType
}
