package startup

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestLaunchConfigEmpty(t *testing.T) {
	lc := NewLaunchConfig("")
	if _, ok := lc.Get(); ok {
		t.Error("Get() reported a launch request for an empty path")
	}
}

func TestLaunchConfigSplitsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holiday.jpg")

	lc := NewLaunchConfig(path)
	got, ok := lc.Get()
	if !ok {
		t.Fatal("Get() returned no launch request")
	}
	if got.Path != path || got.Directory != dir || got.Filename != "holiday.jpg" {
		t.Errorf("Get() = %+v", got)
	}
}

func TestLaunchConfigRelativePath(t *testing.T) {
	lc := NewLaunchConfig("photo.png")
	got, _ := lc.Get()
	if !filepath.IsAbs(got.Path) {
		t.Errorf("Path = %q, want absolute", got.Path)
	}
	if got.Filename != "photo.png" {
		t.Errorf("Filename = %q, want photo.png", got.Filename)
	}
}

func TestLaunchConfigSetReplaces(t *testing.T) {
	dir := t.TempDir()
	lc := NewLaunchConfig(filepath.Join(dir, "a.png"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lc.Get()
		}()
	}
	lc.Set(filepath.Join(dir, "b.png"))
	wg.Wait()

	got, _ := lc.Get()
	if got.Filename != "b.png" {
		t.Errorf("Filename = %q, want b.png after Set", got.Filename)
	}
}
