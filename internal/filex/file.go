// Package filex contains small filesystem helpers shared by server and
// client components.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir makes sure path exists as a directory and returns its absolute
// form. Relative paths are resolved against the working directory. Creating
// an already existing directory is not an error.
func EnsureDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}
