package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"image-manager/internal/filesystem"
	"image-manager/internal/logging"
	"image-manager/internal/media"
	"image-manager/internal/processor"

	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	ListenAddr      string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	LogHealthChecks bool

	// Image pipeline
	Workers             int
	ResizeBackend       string
	ThumbnailQuality    int
	SaveQuality         int
	AutoOrient          bool
	MaxUpscaleDimension int
	MaxThumbnailEdge    int
	MaxPixels           int
	VipsEnabled         bool
}

// maxEdgeSetting bounds the edge limits an operator may configure.
const maxEdgeSetting = 1 << 20

// Addr returns the host:port the API listens on.
func (c *Config) Addr() string {
	return c.ListenAddr + ":" + c.Port
}

// MetricsAddr returns the host:port the metrics server listens on.
func (c *Config) MetricsAddr() string {
	return c.ListenAddr + ":" + c.MetricsPort
}

// settings lists the effective configuration in display order.
func (c *Config) settings() [][2]string {
	return [][2]string{
		{"LISTEN_ADDR", c.ListenAddr},
		{"PORT", c.Port},
		{"METRICS_PORT", c.MetricsPort},
		{"METRICS_ENABLED", strconv.FormatBool(c.MetricsEnabled)},
		{"BATCH_WORKERS", workersString(c.Workers)},
		{"RESIZE_BACKEND", c.ResizeBackend},
		{"THUMBNAIL_QUALITY", strconv.Itoa(c.ThumbnailQuality)},
		{"SAVE_QUALITY", strconv.Itoa(c.SaveQuality)},
		{"AUTO_ORIENT", strconv.FormatBool(c.AutoOrient)},
		{"MAX_UPSCALE_DIMENSION", strconv.Itoa(c.MaxUpscaleDimension)},
		{"MAX_THUMBNAIL_EDGE", strconv.Itoa(c.MaxThumbnailEdge)},
		{"MAX_PIXELS", strconv.Itoa(c.MaxPixels)},
		{"VIPS_ENABLED", strconv.FormatBool(c.VipsEnabled)},
		{"LOG_HEALTH_CHECKS", strconv.FormatBool(c.LogHealthChecks)},
		{"LOG_LEVEL", logging.GetLevel().String()},
	}
}

func workersString(n int) string {
	if n < 1 {
		return "auto"
	}
	return strconv.Itoa(n)
}

// ProcessorConfig returns the image pipeline settings.
func (c *Config) ProcessorConfig() processor.Config {
	return processor.Config{
		Workers:             c.Workers,
		ResizeBackend:       c.ResizeBackend,
		ThumbnailQuality:    c.ThumbnailQuality,
		SaveQuality:         c.SaveQuality,
		AutoOrient:          c.AutoOrient,
		MaxUpscaleDimension: c.MaxUpscaleDimension,
		MaxThumbnailEdge:    c.MaxThumbnailEdge,
		MaxPixels:           c.MaxPixels,
		Retry:               filesystem.DefaultRetryConfig(),
	}
}

// LoadEnvFile seeds the environment from a dotenv file. ENV_FILE names the
// file; ".env" in the working directory is used otherwise. Variables that
// are already set are not overridden. A missing file is not an error.
func LoadEnvFile() {
	path := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			logging.Debug("No env file at %s", path)
			return
		}
		logging.Warn("Failed to load env file %s: %v", path, err)
		return
	}
	logging.Info("Loaded environment from %s", path)
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	config := &Config{
		ListenAddr:          getEnv("LISTEN_ADDR", "127.0.0.1"),
		Port:                getEnv("PORT", "8750"),
		MetricsPort:         getEnv("METRICS_PORT", "9750"),
		MetricsEnabled:      getEnvBool("METRICS_ENABLED", true),
		LogHealthChecks:     getEnvBool("LOG_HEALTH_CHECKS", false),
		Workers:             getEnvInt("BATCH_WORKERS", 0),
		ResizeBackend:       strings.ToLower(getEnv("RESIZE_BACKEND", media.BackendImaging)),
		ThumbnailQuality:    getEnvInt("THUMBNAIL_QUALITY", media.DefaultThumbnailQuality),
		SaveQuality:         getEnvInt("SAVE_QUALITY", media.DefaultSaveQuality),
		AutoOrient:          getEnvBool("AUTO_ORIENT", true),
		MaxUpscaleDimension: getEnvInt("MAX_UPSCALE_DIMENSION", media.DefaultMaxDimension),
		MaxThumbnailEdge:    getEnvInt("MAX_THUMBNAIL_EDGE", media.DefaultMaxThumbnailEdge),
		MaxPixels:           getEnvInt("MAX_PIXELS", media.DefaultMaxPixels),
		VipsEnabled:         getEnvBool("VIPS_ENABLED", false),
	}
	logSettings(config.settings())

	if err := config.validate(); err != nil {
		return nil, err
	}

	if config.ResizeBackend == media.BackendVips && !config.VipsEnabled {
		logging.Warn("  RESIZE_BACKEND=vips without VIPS_ENABLED=true, imaging will be used")
	}

	return config, nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	if _, err := strconv.Atoi(c.MetricsPort); err != nil {
		return fmt.Errorf("invalid METRICS_PORT %q: %w", c.MetricsPort, err)
	}
	if c.MetricsEnabled && c.Port == c.MetricsPort {
		return fmt.Errorf("PORT and METRICS_PORT must differ (both %s)", c.Port)
	}
	if c.ThumbnailQuality < 1 || c.ThumbnailQuality > 100 {
		return fmt.Errorf("THUMBNAIL_QUALITY must be between 1 and 100, got %d", c.ThumbnailQuality)
	}
	if c.SaveQuality < 1 || c.SaveQuality > 100 {
		return fmt.Errorf("SAVE_QUALITY must be between 1 and 100, got %d", c.SaveQuality)
	}
	if c.MaxUpscaleDimension < 1 || c.MaxUpscaleDimension > maxEdgeSetting {
		return fmt.Errorf("MAX_UPSCALE_DIMENSION must be between 1 and %d, got %d", maxEdgeSetting, c.MaxUpscaleDimension)
	}
	if c.MaxThumbnailEdge < 1 || c.MaxThumbnailEdge > maxEdgeSetting {
		return fmt.Errorf("MAX_THUMBNAIL_EDGE must be between 1 and %d, got %d", maxEdgeSetting, c.MaxThumbnailEdge)
	}
	if c.MaxPixels < 1 {
		return fmt.Errorf("MAX_PIXELS must be positive, got %d", c.MaxPixels)
	}
	if _, err := media.NewResizer(c.ResizeBackend); err != nil {
		return fmt.Errorf("invalid RESIZE_BACKEND: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// absPath resolves p against the working directory, keeping p on failure.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
