package media

import (
	"image-manager/internal/imgerr"

	"github.com/disintegration/imaging"
)

// Rotate turns the image by a quarter turn. 90 rotates clockwise and -90
// counter-clockwise; any other angle is rejected with
// imgerr.ErrUnsupportedRotation.
func Rotate(h *Handle, degrees int) (*Handle, error) {
	switch degrees {
	case 90:
		// imaging rotates counter-clockwise.
		return &Handle{img: imaging.Rotate270(h.img), format: h.format}, nil
	case -90:
		return &Handle{img: imaging.Rotate90(h.img), format: h.format}, nil
	default:
		return nil, imgerr.ErrUnsupportedRotation
	}
}

// ToRGB8 returns an opaque 8-bit copy of h. The alpha channel is discarded,
// not composited.
func ToRGB8(h *Handle) *Handle {
	dst := imaging.Clone(h.img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return &Handle{img: dst, format: h.format}
}
