package startup

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"image-manager/internal/logging"
)

const rule = "------------------------------------------------------------"

// section opens a titled block in the startup log.
func section(title string) {
	logging.Info("")
	logging.Info(rule)
	logging.Info("%s", strings.ToUpper(title))
	logging.Info(rule)
}

// logPairs logs aligned key/value lines under the current section.
func logPairs(pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	for _, p := range pairs {
		logging.Info("  %-*s  %s", width+1, p[0]+":", p[1])
	}
}

func printBanner() {
	fmt.Println(`
` + rule + `
    ____                               __  ___
   /  _/___ ___  ____ _____ ____      /  |/  /___ ____
   / // __ '__ \/ __ '/ __ '/ _ \    / /|_/ / __ '/ _ \
 _/ // / / / / / /_/ / /_/ /  __/   / /  / / /_/ /  __/
/___/_/ /_/ /_/\__,_/\__, /\___/   /_/  /_/\__, /\___/
                    /____/                /____/
` + rule)
	logPairs([][2]string{
		{"Version", Version},
		{"Commit", Commit},
		{"Built", BuildTime},
		{"Started", time.Now().Format(time.RFC1123)},
	})
}

func logSystemInfo() {
	section("System")
	logPairs([][2]string{
		{"Go", runtime.Version()},
		{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
		{"CPUs", fmt.Sprint(runtime.NumCPU())},
		{"GOMAXPROCS", fmt.Sprint(runtime.GOMAXPROCS(0))},
	})
	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Working dir: %s", wd)
	}
}

func logSettings(settings [][2]string) {
	section("Configuration")
	logPairs(settings)
}

// LogVipsInit reports the outcome of libvips startup.
func LogVipsInit(err error) {
	section("libvips")
	if err != nil {
		logging.Warn("  unavailable, resizing falls back to imaging: %v", err)
		return
	}
	logging.Info("  [OK] ready")
}

// LogProcessorInit reports the pipeline a Processor was built with.
func LogProcessorInit(backend string, workers int) {
	section("Image pipeline")
	logPairs([][2]string{
		{"Resize backend", backend},
		{"Batch workers", fmt.Sprint(workers)},
	})
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes extracts all registered routes from a mux.Router. Routes
// without a method matcher are reported with method "*".
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		for _, m := range methods {
			routes = append(routes, RouteInfo{Method: m, Path: tpl, Name: route.GetName()})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs the route table at debug level, grouped as API routes,
// probes and everything else.
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	section("HTTP server")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("  error walking routes: %v", err)
		}

		byGroup := make(map[string][]RouteInfo)
		for _, r := range routes {
			g := routeGroup(r.Path)
			byGroup[g] = append(byGroup[g], r)
		}
		groups := make([]string, 0, len(byGroup))
		for g := range byGroup {
			groups = append(groups, g)
		}
		sort.Strings(groups)

		logging.Debug("  %d routes", len(routes))
		for _, g := range groups {
			logging.Debug("  [%s]", g)
			for _, r := range byGroup[g] {
				logging.Debug("    %-7s %s", r.Method, r.Path)
			}
		}
	}

	probes := "off (LOG_HEALTH_CHECKS=true to enable)"
	if logHealthChecks {
		probes = "on"
	}
	logging.Info("  Access log: W3C, probe requests %s", probes)
}

// routeGroup classifies a route path for the route table.
func routeGroup(path string) string {
	switch {
	case path == "/api" || strings.HasPrefix(path, "/api/"):
		return "api"
	case healthPaths[path]:
		return "probes"
	default:
		return "other"
	}
}

var healthPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
	"/version": true,
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Addr            string
	MetricsAddr     string
	MetricsEnabled  bool
	StartupDuration time.Duration
	Launch          string
}

// LogServerStarted logs where the API and metrics can be reached.
func LogServerStarted(config ServerConfig) {
	section("Listening")

	metricsURL := "disabled"
	if config.MetricsEnabled {
		metricsURL = "http://" + config.MetricsAddr + "/metrics"
	}
	pairs := [][2]string{
		{"API", "http://" + config.Addr + "/api"},
		{"Metrics", metricsURL},
		{"Startup", config.StartupDuration.Round(time.Millisecond).String()},
	}
	if config.Launch != "" {
		pairs = append(pairs, [2]string{"Opened with", config.Launch})
	}
	logPairs(pairs)
	logging.Info(rule)
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	section("Shutdown (" + signal + ")")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}
