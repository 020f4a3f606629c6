package config

import (
	"errors"
	"fmt"

	"github.com/gitimg/gitimg/pkg/gitimg"
	githubrepo "github.com/gitimg/gitimg/pkg/gitimg/repo/github"
	memoryrepo "github.com/gitimg/gitimg/pkg/gitimg/repo/memory"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:           "8080",
		Environment:    "development",
		RepositoryType: "memory",
		Branch:         "main",
		RawHost:        gitimg.DefaultRawHost,
		Directory:      gitimg.DefaultDirectory,
		MaxFileSize:    gitimg.DefaultMaxFileSize,
	}
}

// ServerConfig represents server configuration for the gitimg service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Backing repository configuration
	RepositoryType string // "memory", "github"
	Token          string
	Owner          string
	Repo           string
	Branch         string
	BaseURL        string // optional GitHub Enterprise API base

	// Asset configuration
	RawHost     string
	Directory   string
	MaxFileSize int64
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.RepositoryType {
	case "memory":
	case "github":
		if c.Token == "" {
			return fmt.Errorf("%w: token is required for the github repository", gitimg.ErrConfigurationMissing)
		}
		if c.Owner == "" || c.Repo == "" {
			return fmt.Errorf("%w: owner and repo are required for the github repository", gitimg.ErrConfigurationMissing)
		}
	default:
		return fmt.Errorf("repository_type must be 'memory' or 'github', got %q", c.RepositoryType)
	}

	if c.Directory == "" {
		return errors.New("directory is required")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("max file size must be positive")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (gitimg.Service, error) {
	var (
		repo gitimg.ContentRepository
		err  error
	)
	switch c.RepositoryType {
	case "github":
		repo, err = githubrepo.New(githubrepo.Config{
			Token:   c.Token,
			Owner:   c.Owner,
			Repo:    c.Repo,
			Branch:  c.Branch,
			BaseURL: c.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create github repository: %w", err)
		}
	case "memory":
		repo = memoryrepo.New()
	default:
		return nil, fmt.Errorf("unsupported repository type: %s", c.RepositoryType)
	}

	// The memory repository still needs coordinates for URL building; fall
	// back to placeholders so local development works without a token.
	owner, repoName := c.Owner, c.Repo
	if owner == "" {
		owner = "local"
	}
	if repoName == "" {
		repoName = "assets"
	}

	strategy, err := gitimg.NewRawURLStrategy(c.RawHost, owner, repoName, c.Branch)
	if err != nil {
		return nil, fmt.Errorf("failed to create url strategy: %w", err)
	}

	return gitimg.New(
		gitimg.WithRepository(repo),
		gitimg.WithURLStrategy(strategy),
		gitimg.WithDirectory(c.Directory),
		gitimg.WithMaxFileSize(c.MaxFileSize),
	)
}
