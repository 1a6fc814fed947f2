package media

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path/filepath"

	"image-manager/internal/filesystem"
	"image-manager/internal/imgerr"
	"image-manager/internal/logging"
	"image-manager/internal/mediatypes"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/biessek/golang-ico" // ICO format support
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Info describes an image without holding its pixels.
type Info struct {
	Width     int
	Height    int
	ColorType string
	Format    mediatypes.Format
}

// ReadInfo returns image dimensions and pixel layout from the file header
// without fully decoding the image.
func ReadInfo(path string, retry filesystem.RetryConfig) (*Info, error) {
	file, err := filesystem.OpenWithRetry(path, retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, imgerr.NotFound("file not found: %s", filepath.Base(path))
		}
		return nil, imgerr.IO("open", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, format, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", imgerr.ErrDecodeFailed, filepath.Base(path), err)
	}

	return &Info{
		Width:     config.Width,
		Height:    config.Height,
		ColorType: ColorTypeOf(config.ColorModel),
		Format:    mediatypes.FormatFromSniffed(format),
	}, nil
}
