package handlers

import (
	"time"

	"image-manager/internal/processor"
	"image-manager/internal/rename"
	"image-manager/internal/startup"
)

// ImageService is the set of image operations the API exposes.
// *processor.Processor implements it.
type ImageService interface {
	ListImages(dir string) ([]string, error)
	ListEntries(dir string) ([]string, error)
	FullPath(dir, name string) string
	Rotate(dir, name string, degrees int) error
	GenerateThumbnail(dir, name string, maxEdge int) (string, error)
	GenerateThumbnailsBatch(dir string, names []string, maxEdge int) ([]processor.ThumbnailData, error)
	GenerateThumbnailsPartial(dir string, names []string, maxEdge int) ([]processor.ThumbnailOutcome, error)
	GetMetadata(dir, name string) (map[string]string, error)
	Upscale(dir, name string, factor int) (string, error)
	RenameBatch(dir string, mappings []rename.Mapping) ([]rename.Outcome, error)
	ResizeBackend() string
	Workers() int
}

// Handlers serves the JSON API over an ImageService.
type Handlers struct {
	images    ImageService
	launch    *startup.LaunchConfig
	startTime time.Time
}

// New returns handlers for images. launch may be nil when the application
// was started without an open-file request.
func New(images ImageService, launch *startup.LaunchConfig) *Handlers {
	if launch == nil {
		launch = startup.NewLaunchConfig("")
	}
	return &Handlers{
		images:    images,
		launch:    launch,
		startTime: time.Now(),
	}
}
