package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const defaultFileMode os.FileMode = 0o644

// ErrNotDirectory is returned by ResolveDir for paths that exist but are not directories.
var ErrNotDirectory = errors.New("not a directory")

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	if strings.Contains(c, "..") {
		return "", errors.New("path traversal detected")
	}
	return filepath.ToSlash(c), nil
}

// ReadFileContained reads a file only if it is contained within baseDir.
func ReadFileContained(baseDir, filePath string) ([]byte, error) {
	baseDirAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.New("failed to resolve base directory")
	}
	filePathAbs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errors.New("failed to resolve file path")
	}

	rel, err := filepath.Rel(baseDirAbs, filePathAbs)
	if err != nil {
		return nil, errors.New("failed to compute relative path")
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return nil, errors.New("file path is outside base directory")
	}

	// #nosec G304 -- filePathAbs has been verified to be contained within baseDirAbs
	return os.ReadFile(filePathAbs)
}

// ResolveDir returns the absolute form of dir and verifies it is an existing directory.
func ResolveDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !st.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	return abs, nil
}

// ReadFileIfExists reads name from fs. A missing file yields (nil, false, nil).
func ReadFileIfExists(fs billy.Filesystem, name string) ([]byte, bool, error) {
	data, err := util.ReadFile(fs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// WriteFileAtomic writes data to name through a temp file in the same directory
// followed by a rename. The existing file mode is preserved when the filesystem
// supports it; new files get 0644.
func WriteFileAtomic(fs billy.Filesystem, name string, data []byte) error {
	mode := defaultFileMode
	if st, err := fs.Stat(name); err == nil {
		if m := st.Mode() & 0o777; m != 0 {
			mode = m
		}
	}

	tmp, err := fs.TempFile(filepath.Dir(name), ".stylelint-provision-tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if ch, ok := fs.(billy.Chmod); ok {
		if err := ch.Chmod(tmpName, mode); err != nil {
			return err
		}
	}

	if err := fs.Rename(tmpName, name); err != nil {
		return err
	}

	success = true
	return nil
}
