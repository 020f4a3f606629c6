package memory

import (
	"context"
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gitimg/gitimg/pkg/gitimg"
)

// Repository is an in-memory implementation of the gitimg.ContentRepository
// interface. It mirrors the backing store's revision-tag rules: updates and
// deletes must supply the file's current SHA, and a create on an existing
// path is rejected.
type Repository struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// New creates a new in-memory content repository
func New() *Repository {
	return &Repository{
		files: make(map[string][]byte),
	}
}

// blobSHA computes the git blob hash for content.
func blobSHA(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (r *Repository) info(path string, content []byte) *gitimg.FileInfo {
	name := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		name = path[i+1:]
	}
	return &gitimg.FileInfo{
		Name: name,
		Path: path,
		Type: gitimg.FileTypeFile,
		SHA:  blobSHA(content),
		Size: int64(len(content)),
	}
}

// GetFile retrieves metadata for a file in memory
func (r *Repository) GetFile(ctx context.Context, path string) (*gitimg.FileInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.files[path]
	if !exists {
		if r.hasDirLocked(path) {
			return &gitimg.FileInfo{Name: path, Path: path, Type: gitimg.FileTypeDir}, nil
		}
		return nil, fmt.Errorf("%w: %s", gitimg.ErrNotFound, path)
	}
	return r.info(path, content), nil
}

// CreateOrUpdateFile writes content at path, enforcing revision-tag rules
func (r *Repository) CreateOrUpdateFile(ctx context.Context, path string, content []byte, message, sha string) (*gitimg.FileInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.files[path]
	if sha == "" {
		if exists {
			return nil, fmt.Errorf("%w: %s", gitimg.ErrPathExists, path)
		}
	} else {
		if !exists {
			return nil, fmt.Errorf("%w: %s", gitimg.ErrNotFound, path)
		}
		if blobSHA(existing) != sha {
			return nil, fmt.Errorf("stale revision tag for %s", path)
		}
	}

	stored := make([]byte, len(content))
	copy(stored, content)
	r.files[path] = stored
	return r.info(path, stored), nil
}

// DeleteFile removes a file, enforcing revision-tag rules
func (r *Repository) DeleteFile(ctx context.Context, path string, message, sha string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	content, exists := r.files[path]
	if !exists {
		return fmt.Errorf("%w: %s", gitimg.ErrNotFound, path)
	}
	if blobSHA(content) != sha {
		return fmt.Errorf("stale revision tag for %s", path)
	}

	delete(r.files, path)
	return nil
}

// ListDirectory returns the immediate entries under path, sorted by name
func (r *Repository) ListDirectory(ctx context.Context, path string) ([]gitimg.FileInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.hasDirLocked(path) {
		return nil, fmt.Errorf("%w: %s", gitimg.ErrNotFound, path)
	}

	prefix := strings.TrimSuffix(path, "/") + "/"
	seen := make(map[string]bool)
	var entries []gitimg.FileInfo
	for filePath, content := range r.files {
		if !strings.HasPrefix(filePath, prefix) {
			continue
		}
		rest := filePath[len(prefix):]
		if name, _, nested := strings.Cut(rest, "/"); nested {
			// Immediate subdirectory, reported once as a dir entry.
			if !seen[name] {
				seen[name] = true
				entries = append(entries, gitimg.FileInfo{
					Name: name,
					Path: prefix + name,
					Type: gitimg.FileTypeDir,
				})
			}
			continue
		}
		entries = append(entries, *r.info(filePath, content))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// hasDirLocked reports whether any stored file lives under path. A git tree
// exists only while it has content.
func (r *Repository) hasDirLocked(path string) bool {
	prefix := strings.TrimSuffix(path, "/") + "/"
	for filePath := range r.files {
		if strings.HasPrefix(filePath, prefix) {
			return true
		}
	}
	return false
}
