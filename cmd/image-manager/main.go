package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"image-manager/internal/filesystem"
	"image-manager/internal/handlers"
	"image-manager/internal/logging"
	"image-manager/internal/media"
	"image-manager/internal/metrics"
	"image-manager/internal/middleware"
	"image-manager/internal/processor"
	"image-manager/internal/startup"
)

func main() {
	startTime := time.Now()

	startup.LoadEnvFile()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Invalid configuration: %v", err)
	}

	launchPath := ""
	if len(os.Args) > 1 {
		launchPath = os.Args[1]
	}

	// Claim the port before any heavy initialization so a second launch can
	// hand its file to the running instance and exit quickly.
	ln, err := net.Listen("tcp", config.Addr())
	if err != nil {
		if isAddrInUse(err) && launchPath != "" {
			if fwdErr := forwardLaunch(config.Addr(), launchPath); fwdErr != nil {
				startup.LogFatal("Instance already running on %s and forwarding failed: %v", config.Addr(), fwdErr)
			}
			logging.Info("Forwarded %s to running instance on %s", launchPath, config.Addr())
			return
		}
		startup.LogFatal("Failed to listen on %s: %v", config.Addr(), err)
	}

	startup.ConfigureMemory()

	metrics.InitializeMetrics()
	bi := startup.GetBuildInfo()
	metrics.AppInfo.WithLabelValues(bi.Version, bi.Commit, bi.GoVersion).Set(1)
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	if config.VipsEnabled {
		startup.LogVipsInit(media.InitVips(media.DefaultVipsConfig()))
	}

	proc, err := processor.New(config.ProcessorConfig())
	if err != nil {
		startup.LogFatal("Failed to initialize image processor: %v", err)
	}
	startup.LogProcessorInit(proc.ResizeBackend(), proc.Workers())

	launch := startup.NewLaunchConfig(launchPath)
	h := handlers.New(proc, launch)

	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.RequestID(middleware.Logger(loggingConfig)(router))

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // Upscales of large images can take a while
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = startMetricsServer(config.MetricsAddr())
	}

	go handleShutdown(srv, metricsSrv, config.VipsEnabled)

	startup.LogServerStarted(startup.ServerConfig{
		Addr:            config.Addr(),
		MetricsAddr:     config.MetricsAddr(),
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
		Launch:          launchPath,
	})

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
}

// setupRouter builds the API router with per-route metrics attached.
func setupRouter(h *handlers.Handlers) *mux.Router {
	r := h.Router()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	return r
}

// startMetricsServer serves Prometheus metrics on a separate listener.
func startMetricsServer(addr string) *http.Server {
	mr := http.NewServeMux()
	mr.Handle("/metrics", handlers.MetricsHandler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mr,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Metrics server error: %v", err)
		}
	}()

	return srv
}

func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}

// forwardLaunch posts path to the instance already listening on addr.
func forwardLaunch(addr, path string) error {
	body, err := json.Marshal(handlers.LaunchRequest{Path: path})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post("http://"+addr+"/api/launch", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logging.Debug("Failed to close forward response body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("running instance responded %s", resp.Status)
	}
	return nil
}

func handleShutdown(srv, metricsSrv *http.Server, vipsEnabled bool) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	if vipsEnabled {
		startup.LogShutdownStep("Shutting down libvips")
		media.ShutdownVips()
		startup.LogShutdownStepComplete("libvips stopped")
	}

	startup.LogShutdownComplete()
}
