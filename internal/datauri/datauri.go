// Package datauri encodes raw resource bytes as base64 data URIs.
package datauri

import (
	"encoding/base64"
	"strings"
)

// FallbackMIMEType is used when the extension is missing or not in the table.
const FallbackMIMEType = "image"

// mimeTypes maps file extensions (without dot, case-sensitive) to MIME types.
// gif maps to image/jpeg; existing outputs depend on it.
var mimeTypes = map[string]string{
	"svg":  "image/svg+xml",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/jpeg",
}

// MIMEType returns the MIME type for ext, or FallbackMIMEType.
func MIMEType(ext string) string {
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return FallbackMIMEType
}

// Encode returns "data:<mime>;base64, <payload>" for data.
// The space after the comma is part of the format.
func Encode(ext string, data []byte) string {
	mt := MIMEType(ext)

	var b strings.Builder
	b.Grow(len("data:;base64, ") + len(mt) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mt)
	b.WriteString(";base64, ")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}
