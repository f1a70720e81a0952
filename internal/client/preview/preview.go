// Package preview manages revocable local preview handles: uuid-named
// copies of a selected image in a cache directory, created before any
// network transfer and removed on Revoke. The upload flow is the only
// owner of handles and enforces the at-most-one-live invariant.
package preview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Handle is a revocable reference to a local preview copy.
type Handle struct {
	id      string
	path    string
	revoked bool
}

// ID returns the handle identifier.
func (h *Handle) ID() string { return h.id }

// Path returns the location of the preview copy. Only meaningful while
// the handle is live.
func (h *Handle) Path() string { return h.path }

// Live reports whether the handle still holds a resource.
func (h *Handle) Live() bool { return !h.revoked }

// Revoke removes the preview copy. Idempotent: revoking twice is a no-op.
func (h *Handle) Revoke() error {
	if h.revoked {
		return nil
	}
	h.revoked = true
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove preview %s: %w", h.path, err)
	}
	return nil
}

// Manager owns the preview cache directory and creates handles in it.
type Manager struct {
	dir string
}

// NewManager ensures dir exists and returns a manager bound to it.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the cache directory.
func (m *Manager) Dir() string { return m.dir }

// Acquire copies the file at srcPath into the cache under a fresh uuid name
// (keeping the extension) and returns a live handle for it.
func (m *Manager) Acquire(srcPath string) (*Handle, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer src.Close()

	id := uuid.NewString()
	dstPath := filepath.Join(m.dir, id+filepath.Ext(srcPath))

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create preview %s: %w", dstPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("copy into preview %s: %w", dstPath, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("close preview %s: %w", dstPath, err)
	}

	return &Handle{id: id, path: dstPath}, nil
}
