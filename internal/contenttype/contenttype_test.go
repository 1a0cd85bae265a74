package contenttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"photos/cat.jpg", "image/jpeg"},
		{"photos/cat.JPEG", "image/jpeg"},
		{"a.png", "image/png"},
		{"a.gif", "image/gif"},
		{"a.webp", "image/webp"},
		{"clip.mp4", "video/mp4"},
		{"clip.webm", "video/webm"},
		{"song.mp3", "audio/mpeg"},
		{"voice.ogg", "audio/ogg"},
		{"doc.pdf", "application/pdf"},
		{"data.json", "application/json"},
		{"no-extension", Default},
		{"dir.with.dots/file", Default},
		{"weird.zzzunknown", Default},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, FromKey(tt.key))
		})
	}
}

func TestDetect(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	t.Run("extension wins", func(t *testing.T) {
		assert.Equal(t, "application/pdf", Detect("file.pdf", png))
	})

	t.Run("sniff when extension unknown", func(t *testing.T) {
		assert.Equal(t, "image/png", Detect("upload.bin-ish", png))
	})

	t.Run("default without data", func(t *testing.T) {
		assert.Equal(t, Default, Detect("upload", nil))
	})
}
