// Package naming picks output filenames that do not collide with files
// already present in a directory.
package naming

import (
	"fmt"
	"path/filepath"

	"image-manager/internal/filesystem"
)

// Derived returns the base candidate for a scaled copy of stem:
// "<stem>_<factor>x.<ext>", or "<stem>_<factor>x" when ext is empty.
func Derived(stem string, factor int, ext string) string {
	return withExt(fmt.Sprintf("%s_%dx", stem, factor), ext)
}

// Numbered returns the n-th collision variant: "<stem>_<factor>x (<n>).<ext>".
func Numbered(stem string, factor int, ext string, n int) string {
	return withExt(fmt.Sprintf("%s_%dx (%d)", stem, factor, n), ext)
}

func withExt(base, ext string) string {
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// UniqueName returns the first of Derived, Numbered(1), Numbered(2), ...
// that does not exist in dir. ext is given without its leading dot.
//
// The check is not atomic with whatever the caller writes afterwards; a
// concurrent writer can still claim the name in between.
func UniqueName(dir, stem string, factor int, ext string, retry filesystem.RetryConfig) (string, error) {
	candidate := Derived(stem, factor, ext)
	for n := 1; ; n++ {
		exists, err := filesystem.Exists(filepath.Join(dir, candidate), retry)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = Numbered(stem, factor, ext, n)
	}
}
