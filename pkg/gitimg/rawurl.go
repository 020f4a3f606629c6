package gitimg

import (
	"fmt"
	"strings"
)

// DefaultRawHost serves raw file content for github.com repositories.
const DefaultRawHost = "https://raw.githubusercontent.com"

// RawURLStrategy builds retrieval URLs from fixed repository coordinates:
// <host>/<owner>/<repo>/<branch>/<path>. The URL is derived from the
// coordinates and the stored path, never from a response field, so it is
// stable across backing-store API changes.
type RawURLStrategy struct {
	Host   string // scheme+host, e.g. https://raw.githubusercontent.com
	Owner  string
	Repo   string
	Branch string
}

// NewRawURLStrategy creates a strategy for the given coordinates. An empty
// host falls back to DefaultRawHost.
func NewRawURLStrategy(host, owner, repo, branch string) (*RawURLStrategy, error) {
	if host == "" {
		host = DefaultRawHost
	}
	if owner == "" || repo == "" || branch == "" {
		return nil, fmt.Errorf("%w: owner, repo and branch are required", ErrConfigurationMissing)
	}
	return &RawURLStrategy{
		Host:   strings.TrimSuffix(host, "/"),
		Owner:  owner,
		Repo:   repo,
		Branch: branch,
	}, nil
}

// AssetURL builds the stable retrieval URL for a storage path.
func (s *RawURLStrategy) AssetURL(path string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", s.Host, s.Owner, s.Repo, s.Branch, path)
}

// AssetPath recovers the storage path by splitting the URL on the branch
// marker. A URL without the marker cannot have been produced by this
// strategy and is rejected before any network call is made.
func (s *RawURLStrategy) AssetPath(url string) (string, error) {
	marker := "/" + s.Branch + "/"
	_, rest, ok := strings.Cut(url, marker)
	if !ok || rest == "" {
		return "", fmt.Errorf("%w: no %q segment in %q", ErrInvalidAssetURL, s.Branch, url)
	}
	return rest, nil
}
