package logging

import (
	"bytes"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
)

// resetLevel forces the next GetLevel call to re-read the environment.
func resetLevel() {
	levelOnce = sync.Once{}
	currentLevel = LevelInfo
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		want   LogLevel
		wantOK bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"warning", LevelWarn, true},
		{" warn ", LevelWarn, true},
		{"error", LevelError, true},
		{"verbose", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLevelFromEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		debug    string
		logLevel string
		expected LogLevel
	}{
		{"LOG_LEVEL debug", "", "debug", LevelDebug},
		{"LOG_LEVEL error", "", "error", LevelError},
		{"DEBUG wins", "true", "error", LevelDebug},
		{"DEBUG falsy ignored", "0", "warn", LevelWarn},
		{"defaults to info", "", "", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEBUG", tt.debug)
			t.Setenv("LOG_LEVEL", tt.logLevel)
			resetLevel()
			t.Cleanup(resetLevel)

			if got := GetLevel(); got != tt.expected {
				t.Errorf("GetLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSetLevelFiltersOutput(t *testing.T) {
	resetLevel()
	t.Cleanup(resetLevel)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	SetLevel(LevelWarn)
	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	Warn("shown %d", 3)
	Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains suppressed messages: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("output missing expected messages: %q", out)
	}
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() should be false at warn level")
	}
}

func TestLogLevelString(t *testing.T) {
	if LevelDebug.String() != "debug" || LevelError.String() != "error" {
		t.Error("unexpected level names")
	}
	if got := LogLevel(42).String(); got != "unknown(42)" {
		t.Errorf("String() = %q", got)
	}
}
