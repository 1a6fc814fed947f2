package processor

import (
	"strconv"
	"time"

	"image-manager/internal/filesystem"
	"image-manager/internal/logging"
	"image-manager/internal/media"
	"image-manager/internal/mediatypes"
)

// Metadata keys returned by GetMetadata.
const (
	KeyFileSize  = "file_size"
	KeyModified  = "modified"
	KeyWidth     = "width"
	KeyHeight    = "height"
	KeyColorType = "color_type"
	KeyMimeType  = "mime_type"
)

// GetMetadata returns descriptive facts about dir/name as strings. Only a
// missing file fails the call; facets that cannot be read are left out.
func (p *Processor) GetMetadata(dir, name string) (map[string]string, error) {
	path, err := p.requireFile(dir, name)
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string, 6)

	if info, err := filesystem.StatWithRetry(path, p.cfg.Retry); err == nil {
		meta[KeyFileSize] = strconv.FormatInt(info.Size(), 10)
		meta[KeyModified] = info.ModTime().UTC().Format(time.RFC3339Nano)
	} else {
		logging.Debug("metadata: stat %s: %v", name, err)
	}

	if info, err := media.ReadInfo(path, p.cfg.Retry); err == nil {
		meta[KeyWidth] = strconv.Itoa(info.Width)
		meta[KeyHeight] = strconv.Itoa(info.Height)
		meta[KeyColorType] = info.ColorType
		meta[KeyMimeType] = mediatypes.GetMimeType(info.Format)
	} else {
		logging.Debug("metadata: image header %s: %v", name, err)
	}

	return meta, nil
}
