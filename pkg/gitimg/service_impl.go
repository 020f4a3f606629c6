package gitimg

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultDirectory is the storage prefix for assets.
	DefaultDirectory = "images"

	// DefaultMaxFileSize matches the backing content API's own per-file
	// write limit.
	DefaultMaxFileSize = 25 << 20 // 25 MiB
)

// service implements the Service interface
type service struct {
	repository  ContentRepository
	urlStrategy URLStrategy
	directory   string
	maxFileSize int64
	now         func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the backing content repository
func WithRepository(repo ContentRepository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithURLStrategy sets the retrieval URL strategy
func WithURLStrategy(strategy URLStrategy) Option {
	return func(s *service) {
		s.urlStrategy = strategy
	}
}

// WithDirectory sets the storage directory prefix
func WithDirectory(dir string) Option {
	return func(s *service) {
		s.directory = dir
	}
}

// WithMaxFileSize sets the payload size ceiling in bytes
func WithMaxFileSize(limit int64) Option {
	return func(s *service) {
		s.maxFileSize = limit
	}
}

// WithClock overrides the timestamp source. Intended for tests that need
// control over the millisecond filename prefix.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		directory:   DefaultDirectory,
		maxFileSize: DefaultMaxFileSize,
		now:         time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("%w: content repository is required", ErrConfigurationMissing)
	}
	if s.urlStrategy == nil {
		return nil, fmt.Errorf("%w: url strategy is required", ErrConfigurationMissing)
	}

	return s, nil
}

func (s *service) Store(ctx context.Context, data []byte, name string, opts ...StoreOption) (string, error) {
	var options storeOptions
	for _, opt := range opts {
		opt(&options)
	}

	if err := s.validateUpload(data, name, options.contentType); err != nil {
		return "", err
	}
	reportProgress(options.onProgress, 30)

	assetPath := s.directory + "/" + assetFileName(name, s.now())

	// Probe before writing. The probe-then-write sequence is not atomic;
	// the backing store's own create conflict is the final arbiter.
	_, err := s.repository.GetFile(ctx, assetPath)
	switch {
	case err == nil:
		return "", fmt.Errorf("%w: %s", ErrNamingCollision, assetPath)
	case errors.Is(err, ErrNotFound):
		// Fresh path, proceed.
	default:
		return "", &RepositoryError{Op: "store", Path: assetPath, Err: err}
	}
	reportProgress(options.onProgress, 60)

	message := fmt.Sprintf("Upload %s", assetPath)
	if _, err := s.repository.CreateOrUpdateFile(ctx, assetPath, data, message, ""); err != nil {
		if errors.Is(err, ErrPathExists) {
			return "", fmt.Errorf("%w: %s", ErrNamingCollision, assetPath)
		}
		return "", &RepositoryError{Op: "store", Path: assetPath, Err: fmt.Errorf("%w: %v", ErrUploadFailed, err)}
	}
	reportProgress(options.onProgress, 100)

	return s.urlStrategy.AssetURL(assetPath), nil
}

func (s *service) validateUpload(data []byte, name, contentType string) error {
	if int64(len(data)) > s.maxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, len(data), s.maxFileSize)
	}
	if !HasImageExtension(name) && !isImageContentType(contentType) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, name)
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]string, error) {
	assets, err := s.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(assets))
	for _, a := range assets {
		urls = append(urls, a.URL)
	}
	return urls, nil
}

func (s *service) ListAssets(ctx context.Context) ([]Asset, error) {
	entries, err := s.repository.ListDirectory(ctx, s.directory)
	if err != nil {
		// A directory that has never been created is a normal empty state.
		if errors.Is(err, ErrNotFound) {
			return []Asset{}, nil
		}
		return nil, &RepositoryError{Op: "list", Path: s.directory, Err: err}
	}

	assets := make([]Asset, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != FileTypeFile {
			continue
		}
		if IsIgnoredName(entry.Name) || !HasImageExtension(entry.Name) {
			continue
		}
		uploadedAt, originalName := SplitAssetFileName(entry.Name)
		assets = append(assets, Asset{
			Name:       originalName,
			Path:       entry.Path,
			SHA:        entry.SHA,
			Size:       entry.Size,
			URL:        s.urlStrategy.AssetURL(entry.Path),
			UploadedAt: uploadedAt,
		})
	}

	// Timestamp-prefixed names sort newest first in descending name order.
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Path > assets[j].Path
	})

	return assets, nil
}

func (s *service) Remove(ctx context.Context, url string) error {
	assetPath, err := s.urlStrategy.AssetPath(url)
	if err != nil {
		return err
	}

	// The backing store requires the current revision tag for a delete.
	info, err := s.repository.GetFile(ctx, assetPath)
	if err != nil {
		return &RepositoryError{Op: "remove", Path: assetPath, Err: err}
	}
	if info.Type != FileTypeFile {
		return &RepositoryError{Op: "remove", Path: assetPath, Err: fmt.Errorf("%w: not a file", ErrDeleteFailed)}
	}

	message := fmt.Sprintf("Delete %s", assetPath)
	if err := s.repository.DeleteFile(ctx, assetPath, message, info.SHA); err != nil {
		return &RepositoryError{Op: "remove", Path: assetPath, Err: fmt.Errorf("%w: %v", ErrDeleteFailed, err)}
	}
	return nil
}

func (s *service) EnsureDirectory(ctx context.Context) error {
	_, err := s.repository.ListDirectory(ctx, s.directory)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return &RepositoryError{Op: "bootstrap", Path: s.directory, Err: err}
	}

	// The backing store has no empty-directory concept; a placeholder file
	// makes the directory appear in subsequent listings.
	placeholder := s.directory + "/.gitkeep"
	message := fmt.Sprintf("Initialize %s directory", s.directory)
	if _, err := s.repository.CreateOrUpdateFile(ctx, placeholder, []byte{}, message, ""); err != nil {
		// A concurrent bootstrap already created it.
		if errors.Is(err, ErrPathExists) {
			return nil
		}
		return &RepositoryError{Op: "bootstrap", Path: placeholder, Err: err}
	}
	return nil
}

func reportProgress(fn ProgressFunc, percent int) {
	if fn != nil {
		fn(percent)
	}
}

func isImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") && len(contentType) > len("image/")
}
