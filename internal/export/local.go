package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DirTarget writes exported files below a local directory. Existing files
// are replaced atomically.
type DirTarget struct {
	root string
}

// NewDirTarget creates a target rooted at dir.
func NewDirTarget(dir string) *DirTarget {
	return &DirTarget{root: dir}
}

func (t *DirTarget) Describe() string { return t.root }

func (t *DirTarget) pathFor(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", fmt.Errorf("invalid export key %q", key)
	}
	return filepath.Join(t.root, clean), nil
}

// Put streams r to a temp file next to the destination, then renames it.
func (t *DirTarget) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := t.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
