package startup

import (
	"bytes"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"image-manager/internal/logging"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty",
			key:          "TEST_EMPTY_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{name: "Unset keeps default true", envValue: "", defaultValue: true, want: true},
		{name: "Unset keeps default false", envValue: "", defaultValue: false, want: false},
		{name: "true", envValue: "true", defaultValue: false, want: true},
		{name: "false", envValue: "false", defaultValue: true, want: false},
		{name: "1", envValue: "1", defaultValue: false, want: true},
		{name: "0", envValue: "0", defaultValue: true, want: false},
		{name: "Invalid keeps default", envValue: "maybe", defaultValue: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.envValue)
			if got := getEnvBool("TEST_BOOL", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     int
	}{
		{name: "Unset", envValue: "", want: 7},
		{name: "Valid", envValue: "12", want: 12},
		{name: "Whitespace", envValue: " 3 ", want: 3},
		{name: "Negative", envValue: "-1", want: -1},
		{name: "Invalid", envValue: "lots", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.envValue)
			if got := getEnvInt("TEST_INT", 7); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LISTEN_ADDR", "PORT", "METRICS_PORT", "METRICS_ENABLED", "LOG_HEALTH_CHECKS",
		"BATCH_WORKERS", "RESIZE_BACKEND", "THUMBNAIL_QUALITY", "SAVE_QUALITY",
		"AUTO_ORIENT", "MAX_UPSCALE_DIMENSION", "MAX_THUMBNAIL_EDGE", "MAX_PIXELS", "VIPS_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Addr() != "127.0.0.1:8750" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8750", config.Addr())
	}
	if config.MetricsAddr() != "127.0.0.1:9750" {
		t.Errorf("MetricsAddr() = %q, want 127.0.0.1:9750", config.MetricsAddr())
	}
	if !config.MetricsEnabled || !config.AutoOrient || config.VipsEnabled {
		t.Errorf("unexpected feature defaults: %+v", config)
	}
	if config.ThumbnailQuality != 75 || config.ResizeBackend != "imaging" || config.MaxUpscaleDimension != 65535 {
		t.Errorf("unexpected pipeline defaults: %+v", config)
	}

	if config.MaxThumbnailEdge != 16384 || config.MaxPixels != 1<<27 {
		t.Errorf("unexpected limit defaults: edge %d, pixels %d", config.MaxThumbnailEdge, config.MaxPixels)
	}

	pc := config.ProcessorConfig()
	if pc.ThumbnailQuality != 75 || pc.ResizeBackend != "imaging" || !pc.AutoOrient {
		t.Errorf("ProcessorConfig() = %+v, want pipeline defaults", pc)
	}
	if pc.MaxThumbnailEdge != config.MaxThumbnailEdge || pc.MaxPixels != config.MaxPixels {
		t.Errorf("ProcessorConfig() limits = %d/%d, want %d/%d",
			pc.MaxThumbnailEdge, pc.MaxPixels, config.MaxThumbnailEdge, config.MaxPixels)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("RESIZE_BACKEND", "NFNT")
	t.Setenv("BATCH_WORKERS", "3")
	t.Setenv("AUTO_ORIENT", "false")
	t.Setenv("MAX_THUMBNAIL_EDGE", "2048")
	t.Setenv("MAX_PIXELS", "1000000")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Port != "9000" || config.ResizeBackend != "nfnt" || config.Workers != 3 || config.AutoOrient {
		t.Errorf("overrides not applied: %+v", config)
	}
	if config.MaxThumbnailEdge != 2048 || config.MaxPixels != 1000000 {
		t.Errorf("limit overrides not applied: %+v", config)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name, key, value, wantMsg string
	}{
		{"Bad port", "PORT", "http", "PORT"},
		{"Same ports", "METRICS_PORT", "8750", "must differ"},
		{"Quality too high", "THUMBNAIL_QUALITY", "101", "THUMBNAIL_QUALITY"},
		{"Unknown backend", "RESIZE_BACKEND", "bilinear", "RESIZE_BACKEND"},
		{"Zero max dimension", "MAX_UPSCALE_DIMENSION", "0", "MAX_UPSCALE_DIMENSION"},
		{"Huge max dimension", "MAX_UPSCALE_DIMENSION", "2147483648", "MAX_UPSCALE_DIMENSION"},
		{"Zero thumbnail edge", "MAX_THUMBNAIL_EDGE", "0", "MAX_THUMBNAIL_EDGE"},
		{"Huge thumbnail edge", "MAX_THUMBNAIL_EDGE", "2097152", "MAX_THUMBNAIL_EDGE"},
		{"Negative pixel budget", "MAX_PIXELS", "-1", "MAX_PIXELS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			if err == nil {
				t.Fatal("LoadConfig() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("IMGMGR_TEST_FROM_FILE=file\nIMGMGR_TEST_PRESET=file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ENV_FILE", envFile)
	t.Setenv("IMGMGR_TEST_PRESET", "env")
	t.Setenv("IMGMGR_TEST_FROM_FILE", "")
	os.Unsetenv("IMGMGR_TEST_FROM_FILE")

	LoadEnvFile()

	if got := os.Getenv("IMGMGR_TEST_FROM_FILE"); got != "file" {
		t.Errorf("IMGMGR_TEST_FROM_FILE = %q, want value from file", got)
	}
	if got := os.Getenv("IMGMGR_TEST_PRESET"); got != "env" {
		t.Errorf("IMGMGR_TEST_PRESET = %q, want existing environment to win", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	LoadEnvFile()
}

func TestGetRoutes(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/images", func(_ http.ResponseWriter, _ *http.Request) {}).Methods("GET").Name("images")
	router.HandleFunc("/api/rotate", func(_ http.ResponseWriter, _ *http.Request) {}).Methods("POST")
	router.HandleFunc("/health", func(_ http.ResponseWriter, _ *http.Request) {})

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes() error = %v", err)
	}
	if len(routes) != 3 {
		t.Fatalf("GetRoutes() returned %d routes, want 3", len(routes))
	}
	if routes[0].Method != "GET" || routes[0].Path != "/api/images" || routes[0].Name != "images" {
		t.Errorf("routes[0] = %+v", routes[0])
	}
	if routes[2].Method != "*" {
		t.Errorf("route without methods reported %q, want *", routes[2].Method)
	}
}

func TestRouteGroup(t *testing.T) {
	tests := map[string]string{
		"/api/images":    "api",
		"/api/rename":    "api",
		"/api":           "api",
		"/apiary":        "other",
		"/health":        "probes",
		"/readyz":        "probes",
		"/version":       "probes",
		"/":              "other",
		"/api/thumbnail": "api",
	}
	for path, want := range tests {
		if got := routeGroup(path); got != want {
			t.Errorf("routeGroup(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestLogPairsAlignment(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	prev := logging.GetLevel()
	logging.SetLevel(logging.LevelInfo)
	defer logging.SetLevel(prev)

	logPairs([][2]string{{"A", "1"}, {"Longer", "2"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if strings.Index(lines[0], "1") != strings.Index(lines[1], "2") {
		t.Errorf("values not aligned:\n%s", buf.String())
	}
}
