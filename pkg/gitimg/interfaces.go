package gitimg

import (
	"context"
)

// Entry types reported by ContentRepository implementations.
const (
	FileTypeFile = "file"
	FileTypeDir  = "dir"
)

// FileInfo describes one entry in the backing content repository.
type FileInfo struct {
	Name string
	Path string
	Type string // "file" or "dir"
	SHA  string // revision tag; required to update or delete
	Size int64
}

// ContentRepository defines the interface to the backing commit-versioned
// content store. Implementations map their "not found" condition to
// ErrNotFound and a create conflict on an existing path to ErrPathExists.
type ContentRepository interface {
	// GetFile returns metadata for the file at path.
	GetFile(ctx context.Context, path string) (*FileInfo, error)

	// CreateOrUpdateFile writes content at path with a commit message.
	// An empty sha creates the file; a non-empty sha updates the revision it
	// names. The returned FileInfo carries the new revision tag.
	CreateOrUpdateFile(ctx context.Context, path string, content []byte, message, sha string) (*FileInfo, error)

	// DeleteFile removes the file at path. The sha must name the file's
	// current revision.
	DeleteFile(ctx context.Context, path string, message, sha string) error

	// ListDirectory returns one snapshot of the entries under path.
	ListDirectory(ctx context.Context, path string) ([]FileInfo, error)
}

// URLStrategy converts between storage paths and public retrieval URLs.
type URLStrategy interface {
	// AssetURL builds the stable retrieval URL for a storage path.
	AssetURL(path string) string

	// AssetPath recovers the storage path from a retrieval URL previously
	// produced by AssetURL. Returns ErrInvalidAssetURL for URLs it does not
	// recognize.
	AssetPath(url string) (string, error)
}
