package media

import (
	"bytes"
	"encoding/base64"
	"image/jpeg"
	"testing"
)

func TestNewThumbnailEncoderQuality(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultThumbnailQuality},
		{-3, DefaultThumbnailQuality},
		{101, DefaultThumbnailQuality},
		{1, 1},
		{90, 90},
	}
	for _, tt := range tests {
		if got := NewThumbnailEncoder(tt.in).Quality(); got != tt.want {
			t.Errorf("NewThumbnailEncoder(%d).Quality() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestThumbnailEncode(t *testing.T) {
	enc := NewThumbnailEncoder(DefaultThumbnailQuality)
	h := markedHandle(40, 25)

	text, err := enc.Encode(h)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		t.Fatalf("thumbnail is not standard base64: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Error("thumbnail does not start with a JPEG SOI marker")
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("thumbnail is not a JPEG: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 25 {
		t.Errorf("thumbnail = %dx%d, want 40x25", cfg.Width, cfg.Height)
	}

	again, err := enc.Encode(h)
	if err != nil {
		t.Fatal(err)
	}
	if again != text {
		t.Error("Encode() is not deterministic for the same raster")
	}
}
