package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/gitimg/gitimg/pkg/gitimg/api"
	"github.com/gitimg/gitimg/pkg/gitimg/config"
)

type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	GitHub GitHubConfig
	Assets AssetConfig
}

type GitHubConfig struct {
	Token   string `env:"GITHUB_TOKEN" env-default:""`
	Owner   string `env:"GITHUB_OWNER" env-default:""`
	Repo    string `env:"GITHUB_REPO" env-default:""`
	Branch  string `env:"GITHUB_BRANCH" env-default:"main"`
	BaseURL string `env:"GITHUB_BASE_URL" env-default:""`
}

type AssetConfig struct {
	RawHost     string `env:"ASSET_RAW_HOST" env-default:"https://raw.githubusercontent.com"`
	Directory   string `env:"ASSET_DIRECTORY" env-default:"images"`
	MaxUploadMB int64  `env:"ASSET_MAX_UPLOAD_MB" env-default:"25"`
}

func buildOptions(cfg Config) []config.Option {
	opts := []config.Option{
		config.WithPort(cfg.Port),
		config.WithEnvironment(cfg.Environment),
		config.WithRawHost(cfg.Assets.RawHost),
		config.WithDirectory(cfg.Assets.Directory),
		config.WithMaxFileSize(cfg.Assets.MaxUploadMB << 20),
	}
	if cfg.GitHub.Token != "" {
		opts = append(opts, config.WithGitHubRepository(
			cfg.GitHub.Token,
			cfg.GitHub.Owner,
			cfg.GitHub.Repo,
			cfg.GitHub.Branch,
		))
		if cfg.GitHub.BaseURL != "" {
			opts = append(opts, config.WithBaseURL(cfg.GitHub.BaseURL))
		}
	} else {
		opts = append(opts, config.WithMemoryRepository())
	}
	return opts
}

func main() {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverCfg, err := config.Load(buildOptions(cfg)...)
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	svc, err := serverCfg.BuildService()
	if err != nil {
		slog.Error("Failed to build image service", "err", err)
		os.Exit(1)
	}

	// Bootstrap the asset directory so the first listing succeeds.
	if err := svc.EnsureDirectory(context.Background()); err != nil {
		slog.Warn("Failed to bootstrap asset directory", "err", err)
	}

	handler := api.NewImageHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/api/images", handler.Routes())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr := ":" + serverCfg.Port
	slog.Info("Starting image store server",
		"addr", addr,
		"environment", serverCfg.Environment,
		"repository", serverCfg.RepositoryType,
		"directory", serverCfg.Directory,
	)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server failed", "err", err)
		os.Exit(1)
	}
}
