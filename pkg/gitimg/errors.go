package gitimg

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrConfigurationMissing indicates the backing repository coordinates or
	// credentials are absent. Calls failing with this error are not retryable.
	ErrConfigurationMissing = errors.New("repository configuration missing")

	// ErrFileTooLarge indicates a payload exceeds the configured size ceiling
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedFileType indicates a name/content type that does not map
	// to a recognized image type
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrInvalidAssetURL indicates a retrieval URL that cannot be mapped back
	// to a storage path
	ErrInvalidAssetURL = errors.New("invalid asset url")

	// ErrNamingCollision indicates a store attempt resolved to a path that
	// already holds content. The caller may retry with a new name.
	ErrNamingCollision = errors.New("asset path already exists")

	// ErrPathExists is returned by ContentRepository implementations when a
	// create (no revision tag) hits an existing path
	ErrPathExists = errors.New("path already exists")

	// ErrNotFound indicates a file or directory was not found
	ErrNotFound = errors.New("not found")

	// ErrUploadFailed indicates an upload operation failed
	ErrUploadFailed = errors.New("upload failed")

	// ErrDeleteFailed indicates a delete operation failed
	ErrDeleteFailed = errors.New("delete failed")
)

// RepositoryError represents a failure of a backing-repository operation
type RepositoryError struct {
	Op   string
	Path string
	Err  error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository operation %s failed for path %s: %v", e.Op, e.Path, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
