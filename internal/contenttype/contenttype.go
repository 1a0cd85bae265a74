// Package contenttype resolves the Content-Type sent with uploaded objects.
package contenttype

import (
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Default is used when neither the key nor the content identify a type.
const Default = "application/octet-stream"

// known maps the media extensions the storage deals with most to fixed types,
// independent of the host's mime tables.
var known = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".pdf":  "application/pdf",
	".json": "application/json",
}

// FromKey derives the content type from the extension of an object key.
func FromKey(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ext == "" {
		return Default
	}
	if ct, ok := known[ext]; ok {
		return ct
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	return Default
}

// Detect resolves the content type from the key first and falls back to sniffing
// head, the first bytes of the content.
func Detect(key string, head []byte) string {
	if ct := FromKey(key); ct != Default {
		return ct
	}
	if len(head) > 0 {
		if mt := mimetype.Detect(head); mt != nil {
			return mt.String()
		}
	}
	return Default
}
