package gitimg_test

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitimg/gitimg/pkg/gitimg"
	"github.com/gitimg/gitimg/pkg/gitimg/repo/memory"
)

func testStrategy(t *testing.T) *gitimg.RawURLStrategy {
	t.Helper()
	strategy, err := gitimg.NewRawURLStrategy("", "acme", "assets", "main")
	require.NoError(t, err)
	return strategy
}

// fakeClock hands out strictly increasing millisecond timestamps.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1700000000000)}
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func setupTestService(t *testing.T) (gitimg.Service, *memory.Repository) {
	t.Helper()
	repo := memory.New()

	svc, err := gitimg.New(
		gitimg.WithRepository(repo),
		gitimg.WithURLStrategy(testStrategy(t)),
		gitimg.WithDirectory("images"),
		gitimg.WithClock(newFakeClock().Now),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc, repo
}

func TestServiceCreation(t *testing.T) {
	strategy, err := gitimg.NewRawURLStrategy("", "acme", "assets", "main")
	require.NoError(t, err)

	tests := []struct {
		name        string
		options     []gitimg.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []gitimg.Option{},
			expectError: true,
		},
		{
			name: "missing url strategy should fail",
			options: []gitimg.Option{
				gitimg.WithRepository(memory.New()),
			},
			expectError: true,
		},
		{
			name: "with repository and strategy should succeed",
			options: []gitimg.Option{
				gitimg.WithRepository(memory.New()),
				gitimg.WithURLStrategy(strategy),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := gitimg.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, gitimg.ErrConfigurationMissing)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("StoreThenListIncludesURLOnce", func(t *testing.T) {
		svc, _ := setupTestService(t)

		url, err := svc.Store(ctx, []byte("png-bytes"), "photo.png")
		require.NoError(t, err)
		require.NotEmpty(t, url)

		urls, err := svc.List(ctx)
		require.NoError(t, err)

		count := 0
		for _, u := range urls {
			if u == url {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("URLShape", func(t *testing.T) {
		svc, _ := setupTestService(t)

		url, err := svc.Store(ctx, []byte("png-bytes"), "photo one.png")
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`^https://raw\.githubusercontent\.com/acme/assets/main/images/\d{13}-photo_one\.png$`), url)
	})

	t.Run("OversizedPayloadRejectedBeforeAnyCall", func(t *testing.T) {
		repo := &spyRepository{inner: memory.New()}
		svc, err := gitimg.New(
			gitimg.WithRepository(repo),
			gitimg.WithURLStrategy(testStrategy(t)),
			gitimg.WithMaxFileSize(1024),
		)
		require.NoError(t, err)

		_, err = svc.Store(ctx, make([]byte, 2048), "big.png")
		assert.ErrorIs(t, err, gitimg.ErrFileTooLarge)
		assert.Zero(t, repo.calls)
	})

	t.Run("NonImageNameRejectedBeforeAnyCall", func(t *testing.T) {
		repo := &spyRepository{inner: memory.New()}
		svc, err := gitimg.New(
			gitimg.WithRepository(repo),
			gitimg.WithURLStrategy(testStrategy(t)),
		)
		require.NoError(t, err)

		_, err = svc.Store(ctx, []byte("hello"), "notes.txt")
		assert.ErrorIs(t, err, gitimg.ErrUnsupportedFileType)
		assert.Zero(t, repo.calls)
	})

	t.Run("DeclaredContentTypeAllowsExtensionlessName", func(t *testing.T) {
		svc, _ := setupTestService(t)

		url, err := svc.Store(ctx, []byte("png-bytes"), "camera-roll", gitimg.WithContentType("image/png"))
		require.NoError(t, err)
		assert.Contains(t, url, "camera-roll")
	})

	t.Run("SameNameDistinctTimestampsBothSurvive", func(t *testing.T) {
		svc, _ := setupTestService(t)

		first, err := svc.Store(ctx, []byte("one"), "photo.png")
		require.NoError(t, err)
		second, err := svc.Store(ctx, []byte("two"), "photo.png")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		urls, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, urls, 2)

		// Newest first.
		assert.Equal(t, second, urls[0])
		assert.Equal(t, first, urls[1])
	})

	t.Run("CollisionDetectedByProbe", func(t *testing.T) {
		repo := memory.New()
		frozen := time.UnixMilli(1700000000000)
		svc, err := gitimg.New(
			gitimg.WithRepository(repo),
			gitimg.WithURLStrategy(testStrategy(t)),
			gitimg.WithClock(func() time.Time { return frozen }),
		)
		require.NoError(t, err)

		_, err = svc.Store(ctx, []byte("one"), "photo.png")
		require.NoError(t, err)

		_, err = svc.Store(ctx, []byte("two"), "photo.png")
		assert.ErrorIs(t, err, gitimg.ErrNamingCollision)
	})

	t.Run("ProgressMilestones", func(t *testing.T) {
		svc, _ := setupTestService(t)

		var milestones []int
		_, err := svc.Store(ctx, []byte("png-bytes"), "photo.png",
			gitimg.WithProgress(func(percent int) {
				milestones = append(milestones, percent)
			}),
		)
		require.NoError(t, err)
		assert.Equal(t, []int{30, 60, 100}, milestones)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingDirectoryIsEmptyNotError", func(t *testing.T) {
		svc, _ := setupTestService(t)

		urls, err := svc.List(ctx)
		assert.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("FiltersIgnoredAndNonImageNames", func(t *testing.T) {
		svc, repo := setupTestService(t)

		seed := map[string][]byte{
			"images/.gitkeep":               []byte(""),
			"images/notes.txt":              []byte("text"),
			"images/README.md":              []byte("readme"),
			"images/.hidden.png":            []byte("hidden"),
			"images/1700000000001-IMG.JPG":  []byte("jpeg"),
			"images/1700000000002-cat.png":  []byte("cat"),
			"images/nested/1-deep.png":      []byte("deep"),
			"images/1700000000003-logo.svg": []byte("svg"),
		}
		for path, content := range seed {
			_, err := repo.CreateOrUpdateFile(ctx, path, content, "seed", "")
			require.NoError(t, err)
		}

		urls, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, urls, 3)

		assert.Contains(t, urls[0], "logo.svg")
		assert.Contains(t, urls[1], "cat.png")
		assert.Contains(t, urls[2], "IMG.JPG")
	})

	t.Run("BackendFailureSurfaces", func(t *testing.T) {
		repo := &spyRepository{inner: memory.New(), failList: true}
		svc, err := gitimg.New(
			gitimg.WithRepository(repo),
			gitimg.WithURLStrategy(testStrategy(t)),
		)
		require.NoError(t, err)

		_, err = svc.List(ctx)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, gitimg.ErrNotFound)
	})

	t.Run("ListAssetsRecoversNameAndTime", func(t *testing.T) {
		svc, repo := setupTestService(t)

		_, err := repo.CreateOrUpdateFile(ctx, "images/1700000000123-photo_one.png", []byte("p"), "seed", "")
		require.NoError(t, err)

		assets, err := svc.ListAssets(ctx)
		require.NoError(t, err)
		require.Len(t, assets, 1)

		assert.Equal(t, "photo_one.png", assets[0].Name)
		assert.Equal(t, time.UnixMilli(1700000000123).UTC(), assets[0].UploadedAt)
		assert.NotEmpty(t, assets[0].SHA)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("RemoveThenListExcludesURL", func(t *testing.T) {
		svc, _ := setupTestService(t)

		url, err := svc.Store(ctx, []byte("png-bytes"), "photo.png")
		require.NoError(t, err)
		keep, err := svc.Store(ctx, []byte("png-bytes"), "other.png")
		require.NoError(t, err)

		require.NoError(t, svc.Remove(ctx, url))

		urls, err := svc.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, urls, url)
		assert.Contains(t, urls, keep)
	})

	t.Run("MalformedURLRejectedBeforeAnyCall", func(t *testing.T) {
		repo := &spyRepository{inner: memory.New()}
		svc, err := gitimg.New(
			gitimg.WithRepository(repo),
			gitimg.WithURLStrategy(testStrategy(t)),
		)
		require.NoError(t, err)

		err = svc.Remove(ctx, "https://example.com/no/branch/marker.png")
		assert.ErrorIs(t, err, gitimg.ErrInvalidAssetURL)
		assert.Zero(t, repo.calls)
	})

	t.Run("MissingAssetIsError", func(t *testing.T) {
		svc, _ := setupTestService(t)

		err := svc.Remove(ctx, "https://raw.githubusercontent.com/acme/assets/main/images/1700000000000-gone.png")
		assert.ErrorIs(t, err, gitimg.ErrNotFound)
	})
}

func TestEnsureDirectory(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesPlaceholderOnce", func(t *testing.T) {
		svc, repo := setupTestService(t)

		require.NoError(t, svc.EnsureDirectory(ctx))

		info, err := repo.GetFile(ctx, "images/.gitkeep")
		require.NoError(t, err)
		assert.Equal(t, gitimg.FileTypeFile, info.Type)

		// Idempotent once the directory exists.
		require.NoError(t, svc.EnsureDirectory(ctx))

		urls, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, urls)
	})
}

// spyRepository counts calls through to an inner repository and can force
// list failures.
type spyRepository struct {
	inner    gitimg.ContentRepository
	calls    int
	failList bool
}

func (s *spyRepository) GetFile(ctx context.Context, path string) (*gitimg.FileInfo, error) {
	s.calls++
	return s.inner.GetFile(ctx, path)
}

func (s *spyRepository) CreateOrUpdateFile(ctx context.Context, path string, content []byte, message, sha string) (*gitimg.FileInfo, error) {
	s.calls++
	return s.inner.CreateOrUpdateFile(ctx, path, content, message, sha)
}

func (s *spyRepository) DeleteFile(ctx context.Context, path string, message, sha string) error {
	s.calls++
	return s.inner.DeleteFile(ctx, path, message, sha)
}

func (s *spyRepository) ListDirectory(ctx context.Context, path string) ([]gitimg.FileInfo, error) {
	s.calls++
	if s.failList {
		return nil, fmt.Errorf("backend unavailable")
	}
	return s.inner.ListDirectory(ctx, path)
}
