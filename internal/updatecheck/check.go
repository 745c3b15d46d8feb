// Package updatecheck reports when a newer release of the CLI is published.
package updatecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brandonszeto/todo/internal/core/kv"
	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"
)

const (
	cacheTTL       = 24 * time.Hour
	cacheNamespace = "update-check"
	cacheKey       = "latest"

	// DefaultReleaseURL is the GitHub API endpoint for the latest release.
	DefaultReleaseURL = "https://api.github.com/repos/brandonszeto/todo/releases/latest"
)

// ReleaseInfo holds cached release data returned by GitHub.
type ReleaseInfo struct {
	TagName     string `json:"tag_name"`
	PublishedAt string `json:"published_at"`
	HTMLURL     string `json:"html_url"`
}

// Result is returned when a newer version is available.
type Result struct {
	Current string
	Latest  string
	URL     string
}

// Checker looks up the latest release, caching it in a KV store.
type Checker struct {
	store      kv.KV
	client     *http.Client
	releaseURL string
	log        zerolog.Logger
}

// New returns a Checker backed by store. An empty releaseURL uses
// DefaultReleaseURL.
func New(store kv.KV, releaseURL string, log zerolog.Logger) *Checker {
	if releaseURL == "" {
		releaseURL = DefaultReleaseURL
	}
	return &Checker{
		store:      store,
		client:     &http.Client{Timeout: 5 * time.Second},
		releaseURL: releaseURL,
		log:        log,
	}
}

// Check compares currentVersion to the latest release and returns a non-nil
// Result only when an update is available. Lookup failures are logged at
// debug level and reported as "no update".
func (c *Checker) Check(ctx context.Context, currentVersion string) (*Result, error) {
	if c == nil || c.store == nil || currentVersion == "" || currentVersion == "dev" {
		return nil, nil
	}

	normalizedCurrent, ok := normalizeVersion(currentVersion)
	if !ok {
		c.log.Debug().Str("version", currentVersion).Msg("update check: invalid current version")
		return nil, nil
	}

	release, err := c.latestRelease(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("update check: failed to get latest release")
		return nil, nil
	}

	normalizedLatest, ok := normalizeVersion(release.TagName)
	if !ok {
		c.log.Debug().Str("tag", release.TagName).Msg("update check: invalid release tag")
		return nil, nil
	}

	if semver.Compare(normalizedCurrent, normalizedLatest) >= 0 {
		return nil, nil
	}

	return &Result{Current: normalizedCurrent, Latest: normalizedLatest, URL: release.HTMLURL}, nil
}

func (c *Checker) latestRelease(ctx context.Context) (ReleaseInfo, error) {
	cache := kv.Scoped[ReleaseInfo](c.store, cacheNamespace)

	cached, ok, err := cache.Lookup(ctx, cacheKey)
	if err != nil {
		c.log.Debug().Err(err).Msg("update check: read cache")
	}
	if ok {
		return cached, nil
	}

	info, err := c.fetchRelease(ctx)
	if err != nil {
		return ReleaseInfo{}, err
	}

	if err := cache.SetTTL(ctx, cacheKey, info, cacheTTL); err != nil {
		c.log.Debug().Err(err).Msg("update check: failed to cache release")
	}

	return info, nil
}

func (c *Checker) fetchRelease(ctx context.Context) (ReleaseInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.releaseURL, nil)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "todo-update-checker")

	resp, err := c.client.Do(req)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("request latest release: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Msg("update check: close latest release response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return ReleaseInfo{}, fmt.Errorf("request latest release: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("read latest release body: %w", err)
	}

	var info ReleaseInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return ReleaseInfo{}, fmt.Errorf("decode latest release: %w", err)
	}

	if info.TagName == "" {
		return ReleaseInfo{}, fmt.Errorf("decode latest release: missing tag_name")
	}

	return info, nil
}

func normalizeVersion(version string) (string, bool) {
	if semver.IsValid(version) {
		return version, true
	}

	withPrefix := "v" + version
	if semver.IsValid(withPrefix) {
		return withPrefix, true
	}

	return "", false
}
