package media

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"image-manager/internal/imgerr"

	"github.com/disintegration/imaging"
)

// DefaultThumbnailQuality is the JPEG quality of generated thumbnails.
const DefaultThumbnailQuality = 75

// ThumbnailEncoder turns rasters into base64 JPEG text for transport to the
// UI.
type ThumbnailEncoder struct {
	quality int
}

// NewThumbnailEncoder returns an encoder using quality, or
// DefaultThumbnailQuality when quality is outside 1-100.
func NewThumbnailEncoder(quality int) *ThumbnailEncoder {
	if quality < 1 || quality > 100 {
		quality = DefaultThumbnailQuality
	}
	return &ThumbnailEncoder{quality: quality}
}

// Quality returns the JPEG quality in use.
func (e *ThumbnailEncoder) Quality() int { return e.quality }

// EncodeBytes returns the JPEG bytes for h.
func (e *ThumbnailEncoder) EncodeBytes(h *Handle) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, h.img, imaging.JPEG, imaging.JPEGQuality(e.quality)); err != nil {
		return nil, fmt.Errorf("%w: thumbnail: %v", imgerr.ErrEncodeFailed, err)
	}
	return buf.Bytes(), nil
}

// Encode returns the standard-alphabet, padded base64 text of the JPEG
// encoding of h. Output is deterministic for a given raster.
func (e *ThumbnailEncoder) Encode(h *Handle) (string, error) {
	data, err := e.EncodeBytes(h)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
