package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithGitHubRepository configures the GitHub contents-API backing store
func WithGitHubRepository(token, owner, repo, branch string) Option {
	return func(c *ServerConfig) error {
		if token == "" {
			return fmt.Errorf("token is required for the github repository")
		}
		if owner == "" || repo == "" {
			return fmt.Errorf("owner and repo are required for the github repository")
		}
		c.RepositoryType = "github"
		c.Token = token
		c.Owner = owner
		c.Repo = repo
		if branch != "" {
			c.Branch = branch
		}
		return nil
	}
}

// WithMemoryRepository configures the in-memory backing store
func WithMemoryRepository() Option {
	return func(c *ServerConfig) error {
		c.RepositoryType = "memory"
		return nil
	}
}

// WithBaseURL sets a GitHub Enterprise API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *ServerConfig) error {
		c.BaseURL = baseURL
		return nil
	}
}

// WithRawHost sets the host retrieval URLs are built against
func WithRawHost(host string) Option {
	return func(c *ServerConfig) error {
		if host == "" {
			return fmt.Errorf("raw host cannot be empty")
		}
		c.RawHost = host
		return nil
	}
}

// WithDirectory sets the asset storage directory
func WithDirectory(dir string) Option {
	return func(c *ServerConfig) error {
		if dir == "" {
			return fmt.Errorf("directory cannot be empty")
		}
		c.Directory = dir
		return nil
	}
}

// WithMaxFileSize sets the upload size ceiling in bytes
func WithMaxFileSize(limit int64) Option {
	return func(c *ServerConfig) error {
		if limit <= 0 {
			return fmt.Errorf("max file size must be positive")
		}
		c.MaxFileSize = limit
		return nil
	}
}
