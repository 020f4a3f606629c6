package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v68/github"

	"github.com/gitimg/gitimg/pkg/gitimg"
)

// Config options for the GitHub contents-API repository
type Config struct {
	Token  string // personal access token with contents read/write
	Owner  string // repository owner
	Repo   string // repository name
	Branch string // target branch (default: main)

	// BaseURL points the client at a GitHub Enterprise instance.
	// Leave empty for github.com.
	BaseURL string
}

// Repository is a GitHub contents-API implementation of the
// gitimg.ContentRepository interface.
type Repository struct {
	client *gh.Client
	owner  string
	repo   string
	branch string
}

// New creates a new GitHub-backed content repository
func New(config Config) (gitimg.ContentRepository, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("%w: token is required", gitimg.ErrConfigurationMissing)
	}
	if config.Owner == "" || config.Repo == "" {
		return nil, fmt.Errorf("%w: owner and repo are required", gitimg.ErrConfigurationMissing)
	}
	if config.Branch == "" {
		config.Branch = "main"
	}

	client := gh.NewClient(nil).WithAuthToken(config.Token)
	if config.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(config.BaseURL, config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise base URL: %w", err)
		}
	}

	return &Repository{
		client: client,
		owner:  config.Owner,
		repo:   config.Repo,
		branch: config.Branch,
	}, nil
}

// GetFile returns metadata for the file at path on the configured branch.
func (r *Repository) GetFile(ctx context.Context, path string) (*gitimg.FileInfo, error) {
	file, _, resp, err := r.client.Repositories.GetContents(ctx, r.owner, r.repo, path, &gh.RepositoryContentGetOptions{
		Ref: r.branch,
	})
	if err != nil {
		return nil, mapError("get contents", err, resp)
	}
	if file == nil {
		// The path resolved to a directory listing.
		return &gitimg.FileInfo{
			Name: path,
			Path: path,
			Type: gitimg.FileTypeDir,
		}, nil
	}
	return toFileInfo(file), nil
}

// CreateOrUpdateFile writes content at path. An empty sha creates the file;
// GitHub rejects a create on an existing path, which surfaces as
// gitimg.ErrPathExists.
func (r *Repository) CreateOrUpdateFile(ctx context.Context, path string, content []byte, message, sha string) (*gitimg.FileInfo, error) {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: content,
		Branch:  gh.Ptr(r.branch),
	}

	var (
		result *gh.RepositoryContentResponse
		resp   *gh.Response
		err    error
	)
	if sha == "" {
		result, resp, err = r.client.Repositories.CreateFile(ctx, r.owner, r.repo, path, opts)
	} else {
		opts.SHA = gh.Ptr(sha)
		result, resp, err = r.client.Repositories.UpdateFile(ctx, r.owner, r.repo, path, opts)
	}
	if err != nil {
		return nil, mapError("create or update file", err, resp)
	}

	if result.Content == nil {
		return &gitimg.FileInfo{Name: path, Path: path, Type: gitimg.FileTypeFile}, nil
	}
	return toFileInfo(result.Content), nil
}

// DeleteFile removes the file at path. The sha must name its current
// revision; a stale sha is rejected by the API as a conflict.
func (r *Repository) DeleteFile(ctx context.Context, path string, message, sha string) error {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		SHA:     gh.Ptr(sha),
		Branch:  gh.Ptr(r.branch),
	}
	_, resp, err := r.client.Repositories.DeleteFile(ctx, r.owner, r.repo, path, opts)
	if err != nil {
		return mapError("delete file", err, resp)
	}
	return nil
}

// ListDirectory returns one snapshot of the entries under path. No
// pagination is applied: the contents API returns a directory in a single
// response up to its own entry limit.
func (r *Repository) ListDirectory(ctx context.Context, path string) ([]gitimg.FileInfo, error) {
	file, dir, resp, err := r.client.Repositories.GetContents(ctx, r.owner, r.repo, path, &gh.RepositoryContentGetOptions{
		Ref: r.branch,
	})
	if err != nil {
		return nil, mapError("list directory", err, resp)
	}
	if file != nil {
		return nil, fmt.Errorf("path %s is a file, not a directory", path)
	}

	entries := make([]gitimg.FileInfo, 0, len(dir))
	for _, entry := range dir {
		entries = append(entries, *toFileInfo(entry))
	}
	return entries, nil
}

func toFileInfo(content *gh.RepositoryContent) *gitimg.FileInfo {
	return &gitimg.FileInfo{
		Name: content.GetName(),
		Path: content.GetPath(),
		Type: content.GetType(),
		SHA:  content.GetSHA(),
		Size: int64(content.GetSize()),
	}
}

// mapError translates GitHub API failures into the repository error
// vocabulary the service layer dispatches on.
func mapError(op string, err error, resp *gh.Response) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", gitimg.ErrNotFound, err)
		case http.StatusUnprocessableEntity, http.StatusConflict:
			// A create without a revision tag on an existing path.
			return fmt.Errorf("%w: %v", gitimg.ErrPathExists, err)
		}
	}
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", gitimg.ErrNotFound, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
