// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration is read from environment variables via [LoadConfig]. [LoadEnvFile]
// first seeds the environment from a dotenv file (ENV_FILE, default .env);
// variables already present in the environment win.
//
//   - LISTEN_ADDR: Interface to bind (default: 127.0.0.1)
//   - PORT: API server port (default: 8750)
//   - METRICS_PORT: Prometheus metrics server port (default: 9750)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - BATCH_WORKERS: Thumbnail batch parallelism (default: GOMAXPROCS)
//   - RESIZE_BACKEND: imaging, nfnt or vips (default: imaging)
//   - THUMBNAIL_QUALITY: JPEG quality of thumbnails (default: 75)
//   - SAVE_QUALITY: JPEG quality of rotated and upscaled files (default: 95)
//   - AUTO_ORIENT: Apply EXIF orientation on decode (default: true)
//   - MAX_UPSCALE_DIMENSION: Largest edge an upscale may produce (default: 65535)
//   - MAX_THUMBNAIL_EDGE: Largest max_edge a thumbnail request may ask for (default: 16384)
//   - MAX_PIXELS: Pixel budget for any planned resize (default: 134217728)
//   - VIPS_ENABLED: Start libvips at startup (default: false)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: false)
//   - MEMORY_LIMIT: Memory budget for automatic GOMEMLIMIT configuration
//   - MEMORY_RATIO: Share of MEMORY_LIMIT for the Go heap (default: 0.85)
//   - GOMEMLIMIT: Direct override for Go's memory limit
//
// # Open-file requests
//
// [LaunchConfig] holds the file the desktop shell asked the application to
// open, initially from the command line and later from forwarded requests of
// second instances.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Example Usage
//
//	startup.LoadEnvFile()
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//	startup.ConfigureMemory()
//
//	startup.LogServerStarted(startup.ServerConfig{
//	    Addr:            config.Addr(),
//	    MetricsAddr:     config.MetricsAddr(),
//	    MetricsEnabled:  config.MetricsEnabled,
//	    StartupDuration: time.Since(startTime),
//	})
package startup
