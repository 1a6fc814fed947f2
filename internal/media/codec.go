package media

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"image-manager/internal/filesystem"
	"image-manager/internal/imgerr"
	"image-manager/internal/logging"
	"image-manager/internal/mediatypes"
	"image-manager/internal/metrics"

	ico "github.com/biessek/golang-ico"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp" // WebP decoder
)

// DefaultSaveQuality is the JPEG quality used when a derivative replaces or
// sits next to an original (rotate, upscale).
const DefaultSaveQuality = 95

// Handle is a decoded raster owned by the job that opened it.
type Handle struct {
	img    image.Image
	format mediatypes.Format
	// Dimensions stored in the file header, before any EXIF orientation.
	// Zero when the handle was not read from a file.
	headerW, headerH int
}

// NewHandle wraps an in-memory image. format records where it came from.
func NewHandle(img image.Image, format mediatypes.Format) *Handle {
	return &Handle{img: img, format: format}
}

// Image returns the underlying raster.
func (h *Handle) Image() image.Image { return h.img }

// Width returns the raster width in pixels.
func (h *Handle) Width() int { return h.img.Bounds().Dx() }

// Height returns the raster height in pixels.
func (h *Handle) Height() int { return h.img.Bounds().Dy() }

// HeaderSize returns the dimensions recorded in the source file, which
// differ from Width and Height when decoding applied an EXIF rotation.
// Handles built in memory report their raster size.
func (h *Handle) HeaderSize() (int, int) {
	if h.headerW > 0 && h.headerH > 0 {
		return h.headerW, h.headerH
	}
	return h.Width(), h.Height()
}

// Format returns the sniffed source format.
func (h *Handle) Format() mediatypes.Format { return h.format }

// ColorType describes the pixel layout of the raster.
func (h *Handle) ColorType() string { return ColorTypeOf(h.img.ColorModel()) }

// ColorTypeOf names a color model using channel-layout names such as
// "Rgb8", "Rgba8" or "L16".
func ColorTypeOf(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "Rgba8"
	}
	// Decoders report opaque truecolor as RGBA/RGBA64 and keep the
	// non-premultiplied models for images with an alpha channel.
	switch m {
	case color.NRGBAModel, color.NYCbCrAModel:
		return "Rgba8"
	case color.NRGBA64Model:
		return "Rgba16"
	case color.RGBAModel, color.YCbCrModel:
		return "Rgb8"
	case color.RGBA64Model:
		return "Rgb16"
	case color.GrayModel:
		return "L8"
	case color.Gray16Model:
		return "L16"
	case color.AlphaModel:
		return "A8"
	case color.Alpha16Model:
		return "A16"
	case color.CMYKModel:
		return "Cmyk8"
	default:
		return "Unknown"
	}
}

// DecodeOptions controls how files are opened.
type DecodeOptions struct {
	// AutoOrient applies the EXIF orientation tag while decoding.
	AutoOrient bool
	Retry      filesystem.RetryConfig
}

// DefaultDecodeOptions returns auto-orienting decode options.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		AutoOrient: true,
		Retry:      filesystem.DefaultRetryConfig(),
	}
}

// Open reads and decodes the image at path. The container format is taken
// from the file content, not from the extension.
func Open(path string, opts DecodeOptions) (*Handle, error) {
	name := filepath.Base(path)

	data, err := readFile(path, opts.Retry)
	if err != nil {
		return nil, err
	}

	format := Sniff(data, name)
	if format == mediatypes.FormatSVG {
		return nil, fmt.Errorf("%w: %s: svg images cannot be rasterized", imgerr.ErrDecodeFailed, name)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(opts.AutoOrient))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", imgerr.ErrDecodeFailed, name, err)
	}

	metrics.ImageDecodeByFormat.WithLabelValues(string(format)).Inc()
	logging.Debug("Decoded %s (%s, %dx%d)", name, format, img.Bounds().Dx(), img.Bounds().Dy())

	h := &Handle{img: img, format: format}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		h.headerW, h.headerH = cfg.Width, cfg.Height
	}
	return h, nil
}

func readFile(path string, retry filesystem.RetryConfig) ([]byte, error) {
	f, err := filesystem.OpenWithRetry(path, retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, imgerr.NotFound("file not found: %s", filepath.Base(path))
		}
		return nil, imgerr.IO("open", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, imgerr.IO("read", err)
	}
	return data, nil
}

// Sniff identifies the container format of data. Content wins over the
// extension of name; a disagreement is logged.
func Sniff(data []byte, name string) mediatypes.Format {
	byName := mediatypes.FormatFromName(name)

	sniffed := mediatypes.FormatUnknown
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		sniffed = mediatypes.FormatFromSniffed(kind.Extension)
	}
	if sniffed == mediatypes.FormatUnknown {
		// Registered image decoders know a few signatures filetype does not.
		if _, registered, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			sniffed = mediatypes.FormatFromSniffed(registered)
		}
	}

	if sniffed == mediatypes.FormatUnknown {
		if byName == mediatypes.FormatSVG {
			return mediatypes.FormatSVG
		}
		return mediatypes.FormatUnknown
	}

	if byName != mediatypes.FormatUnknown && byName != sniffed {
		logging.Warn("%s: extension says %s but content is %s", name, byName, sniffed)
	}
	return sniffed
}

// EncodeOptions controls how Save serializes rasters.
type EncodeOptions struct {
	// JPEGQuality applies to .jpg/.jpeg targets (1-100).
	JPEGQuality int
}

// DefaultEncodeOptions returns the options used for derivatives on disk.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{JPEGQuality: DefaultSaveQuality}
}

type encodeFunc func(w io.Writer, img image.Image) error

func encoderFor(format mediatypes.Format, opts EncodeOptions) (encodeFunc, error) {
	quality := opts.JPEGQuality
	if quality < 1 || quality > 100 {
		quality = DefaultSaveQuality
	}

	switch format {
	case mediatypes.FormatJPEG:
		return func(w io.Writer, img image.Image) error {
			return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
		}, nil
	case mediatypes.FormatPNG:
		return imagingEncoder(imaging.PNG), nil
	case mediatypes.FormatGIF:
		return imagingEncoder(imaging.GIF), nil
	case mediatypes.FormatTIFF:
		return imagingEncoder(imaging.TIFF), nil
	case mediatypes.FormatBMP:
		return imagingEncoder(imaging.BMP), nil
	case mediatypes.FormatWEBP:
		return func(w io.Writer, img image.Image) error {
			return webp.Encode(w, img, &webp.Options{Lossless: true})
		}, nil
	case mediatypes.FormatICO:
		return ico.Encode, nil
	default:
		return nil, fmt.Errorf("%w: no encoder for %s output", imgerr.ErrEncodeFailed, format)
	}
}

func imagingEncoder(f imaging.Format) encodeFunc {
	return func(w io.Writer, img image.Image) error {
		return imaging.Encode(w, img, f)
	}
}

// Save encodes h to path, choosing the format from path's extension. The
// bytes go to a temporary file in the same directory that is renamed over
// path only after encoding succeeded, so a failure never leaves a truncated
// target behind. An existing file at path is replaced.
func Save(h *Handle, path string, opts EncodeOptions) error {
	format := mediatypes.FormatFromName(path)
	encode, err := encoderFor(format, opts)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".imgtmp-*")
	if err != nil {
		return imgerr.IO("create temp file", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			if err := os.Remove(tmpName); err != nil && !errors.Is(err, fs.ErrNotExist) {
				logging.Warn("failed to remove temp file %s: %v", tmpName, err)
			}
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := encode(bw, h.img); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %v", imgerr.ErrEncodeFailed, filepath.Base(path), err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return imgerr.IO("write", err)
	}
	if err := tmp.Close(); err != nil {
		return imgerr.IO("close", err)
	}

	if err := os.Chmod(tmpName, filesystem.Mode(path, 0o644)); err != nil {
		logging.Debug("chmod %s: %v", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return imgerr.IO("rename", err)
	}
	committed = true

	logging.Debug("Saved %s (%s, %dx%d)", filepath.Base(path), format, h.Width(), h.Height())
	return nil
}
