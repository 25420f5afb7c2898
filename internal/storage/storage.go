// Package storage provides a uniform file-operation interface over two
// interchangeable backends: the local filesystem and an S3-compatible blob
// store. The backend is selected exactly once at process start; no call site
// outside the factory branches on which backend is in use.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chdeepakkumar/portfolio/internal/common"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// Backend is the capability set shared by all storage implementations.
//
// Paths are forward-slash separated, relative to the backend's root
// namespace, with no leading slash (e.g. "knowledge/portfolio.json").
//
// Error contract:
//   - Read, ReadBytes, Delete, Stat fail with common.ErrNotFound when no
//     object exists at the path.
//   - Exists never fails for an absent object; unexpected transport errors
//     may be reported, and decorators or implementations are expected to
//     degrade them to a logged false rather than propagate (existence probes
//     run during default-document synthesis, where a hard failure would
//     break bootstrapping).
//   - All other failures wrap common.ErrBackend with the operation and path.
type Backend interface {
	// Read returns the UTF-8 text content of the object at path.
	Read(ctx context.Context, path string) (string, error)

	// Write upserts the object at path, creating parent structure as needed.
	// When verify is true the implementation re-checks existence after the
	// write; the local backend treats a failed check as an error, the remote
	// backend only logs a warning because the store is eventually consistent.
	Write(ctx context.Context, path string, content string, verify bool) error

	// ReadBytes and WriteBytes are byte-exact variants for binary payloads.
	ReadBytes(ctx context.Context, path string) ([]byte, error)
	WriteBytes(ctx context.Context, path string, data []byte) error

	// Exists reports whether an object is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes the object at path.
	Delete(ctx context.Context, path string) error

	// List returns the immediate children under prefix with bare names
	// (the prefix itself stripped). A missing prefix yields an empty list.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Stat returns size and modification time of the object at path.
	Stat(ctx context.Context, path string) (ObjectInfo, error)
}

// validatePath rejects keys that would escape the backend namespace.
func validatePath(p string) error {
	if p == "" || strings.HasPrefix(p, "/") {
		return fmt.Errorf("%w: invalid path %q", common.ErrValidation, p)
	}
	for _, part := range strings.Split(p, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: invalid path %q", common.ErrValidation, p)
		}
	}
	return nil
}
