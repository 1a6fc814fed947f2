package media

import (
	"errors"
	"image/color"
	"testing"

	"image-manager/internal/imgerr"
)

func TestRotate(t *testing.T) {
	src := markedHandle(6, 4)

	t.Run("Clockwise", func(t *testing.T) {
		out, err := Rotate(src, 90)
		if err != nil {
			t.Fatalf("Rotate(90) error = %v", err)
		}
		if out.Width() != 4 || out.Height() != 6 {
			t.Fatalf("Rotate(90) = %dx%d, want 4x6", out.Width(), out.Height())
		}
		// Top-left moves to top-right on a clockwise turn.
		if !isRed(out.Image().At(3, 0)) {
			t.Error("Rotate(90) did not move the top-left pixel to the top-right corner")
		}
	})

	t.Run("Counter-clockwise", func(t *testing.T) {
		out, err := Rotate(src, -90)
		if err != nil {
			t.Fatalf("Rotate(-90) error = %v", err)
		}
		if !isRed(out.Image().At(0, 5)) {
			t.Error("Rotate(-90) did not move the top-left pixel to the bottom-left corner")
		}
	})

	t.Run("Round trip", func(t *testing.T) {
		cw, _ := Rotate(src, 90)
		back, err := Rotate(cw, -90)
		if err != nil {
			t.Fatalf("Rotate(-90) error = %v", err)
		}
		if back.Width() != 6 || back.Height() != 4 {
			t.Fatalf("round trip = %dx%d, want 6x4", back.Width(), back.Height())
		}
		for y := 0; y < 4; y++ {
			for x := 0; x < 6; x++ {
				if back.Image().At(x, y) != src.Image().At(x, y) {
					t.Fatalf("pixel (%d,%d) differs after round trip", x, y)
				}
			}
		}
	})

	for _, deg := range []int{0, 45, 180, 270, -180} {
		if _, err := Rotate(src, deg); !errors.Is(err, imgerr.ErrUnsupportedRotation) {
			t.Errorf("Rotate(%d) error = %v, want ErrUnsupportedRotation", deg, err)
		}
	}
}

func TestToRGB8(t *testing.T) {
	src := markedHandle(2, 2)
	src.Image().(interface {
		SetNRGBA(x, y int, c color.NRGBA)
	}).SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 0})

	out := ToRGB8(src)

	_, _, _, a := out.Image().At(1, 1).RGBA()
	if a != 0xffff {
		t.Errorf("alpha = %#x, want opaque", a)
	}
	got := out.Image().ColorModel().Convert(out.Image().At(1, 1)).(color.NRGBA)
	if got.R != 10 || got.G != 20 || got.B != 30 {
		t.Errorf("color = %+v, want RGB channels preserved", got)
	}
	if _, _, _, a := src.Image().At(1, 1).RGBA(); a != 0 {
		t.Error("ToRGB8 modified its source handle")
	}
}
