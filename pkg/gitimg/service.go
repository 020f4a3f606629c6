package gitimg

import (
	"context"
)

// ProgressFunc receives coarse upload progress as a percentage in [0,100].
// The backing protocol exposes no partial-write progress, so the values are
// phase estimates (payload validated, payload encoded, write acknowledged),
// not byte-level throughput.
type ProgressFunc func(percent int)

// StoreOption configures a single Store call.
type StoreOption func(*storeOptions)

type storeOptions struct {
	contentType string
	onProgress  ProgressFunc
}

// WithContentType declares the payload's media type. A payload whose name
// lacks a recognized image extension is still accepted when the declared
// type is an image type.
func WithContentType(contentType string) StoreOption {
	return func(o *storeOptions) {
		o.contentType = contentType
	}
}

// WithProgress registers a callback invoked at coarse milestones during
// Store.
func WithProgress(fn ProgressFunc) StoreOption {
	return func(o *storeOptions) {
		o.onProgress = fn
	}
}

// Service is the asset-store surface exposed to callers.
type Service interface {
	// Store writes data under a fresh timestamp-prefixed path derived from
	// name and returns the asset's stable retrieval URL.
	Store(ctx context.Context, data []byte, name string, opts ...StoreOption) (string, error)

	// List returns the retrieval URLs of every asset in the directory,
	// newest first. A directory that does not exist yet yields an empty
	// slice, not an error.
	List(ctx context.Context) ([]string, error)

	// ListAssets is List with per-asset detail.
	ListAssets(ctx context.Context) ([]Asset, error)

	// Remove durably deletes the asset behind a URL previously returned by
	// Store or List.
	Remove(ctx context.Context, url string) error

	// EnsureDirectory makes the asset directory listable, creating a
	// placeholder file if the directory does not exist yet. Idempotent.
	EnsureDirectory(ctx context.Context) error
}
