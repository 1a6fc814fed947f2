// Command image-manager runs the local HTTP backend for the image manager
// desktop shell.
//
// It listens on the loopback interface and exposes thumbnail, rotate,
// upscale, metadata and bulk-rename operations as a JSON API. Prometheus
// metrics are served on a separate port.
//
// Usage:
//
//	image-manager [file]
//
// When file is given, the application opens with it selected. If another
// instance already owns the port, file is forwarded to that instance and
// this process exits.
//
// Configuration is read from the environment, optionally seeded from a
// dotenv file (ENV_FILE, default .env):
//
//	LISTEN_ADDR            bind address (default 127.0.0.1)
//	PORT                   API port (default 8750)
//	METRICS_PORT           metrics port (default 9750)
//	METRICS_ENABLED        serve /metrics (default true)
//	LOG_LEVEL              debug, info, warn or error
//	LOG_HEALTH_CHECKS      log probe requests (default false)
//	BATCH_WORKERS          thumbnail batch parallelism (default: CPU count)
//	RESIZE_BACKEND         imaging, nfnt or vips (default imaging)
//	THUMBNAIL_QUALITY      JPEG quality for thumbnails (default 75)
//	SAVE_QUALITY           JPEG quality when saving (default 95)
//	AUTO_ORIENT            apply EXIF orientation on decode (default true)
//	MAX_UPSCALE_DIMENSION  largest edge an upscale may produce (default 65535)
//	MAX_THUMBNAIL_EDGE     largest thumbnail max_edge accepted (default 16384)
//	MAX_PIXELS             pixel budget for any resize (default 134217728)
//	VIPS_ENABLED           initialize libvips at startup (default false)
//	MEMORY_LIMIT           bytes available, used to derive GOMEMLIMIT
package main
