// Package fetch retrieves digitized-book HTML from Project Gutenberg
// mirrors. Mirrors are tried in a fixed order with per-URL retry; a fetched
// file is cached on disk so repeat runs never hit the network.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/literaryqa/gutenclean/internal/logger"
)

// ErrNotFound means every mirror failed for a book. There is nothing to
// clean in that case; callers record the ID and move on.
var ErrNotFound = errors.New("book not found on any mirror")

// defaultMirrors lists URL templates in preference order. The pglaf mirror
// is the most reliable; the aleph pattern matches the original QuALITY
// source; the files/ mirrors come last. {id} is the numeric book ID and
// {subfolders} its slash-separated leading digits (12345 -> 1/2/3/4).
var defaultMirrors = []string{
	"http://aleph.gutenberg.org/{subfolders}/{id}//{id}-h//{id}-h.htm",
	"https://gutenberg.pglaf.org/{subfolders}/{id}/{id}-h/{id}-h.htm",
	"https://www.gutenberg.org/cache/epub/{id}/pg{id}-images.html",
	"https://www.gutenberg.org/files/{id}/{id}-h.htm",
	"http://www.gutenberg.lib.md.us/files/{id}/{id}-h.htm",
	"https://gutenberg.pglaf.org/files/{id}/{id}-h.htm",
	"http://mirrors.xmission.com/gutenberg/files/{id}/{id}-h.htm",
}

// Config controls mirror selection, retry policy and caching.
type Config struct {
	// Mirrors overrides the default mirror templates. Order is preference.
	Mirrors []string

	// CacheDir, when set, is checked before the network and receives a copy
	// of every successful download as <id>.htm.
	CacheDir string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// Attempts is the per-URL retry count; Delay the pause between tries.
	Attempts uint
	Delay    time.Duration
}

// DefaultConfig returns the retry and timeout policy tuned for the
// Gutenberg mirrors.
func DefaultConfig() Config {
	return Config{
		Mirrors:  defaultMirrors,
		Timeout:  10 * time.Second,
		Attempts: 2,
		Delay:    time.Second,
	}
}

// Fetcher downloads book HTML with mirror fallback.
type Fetcher struct {
	cfg    Config
	client *http.Client
}

// New creates a Fetcher. Zero-value fields of cfg fall back to defaults.
func New(cfg Config) *Fetcher {
	def := DefaultConfig()
	if len(cfg.Mirrors) == 0 {
		cfg.Mirrors = def.Mirrors
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.Delay == 0 {
		cfg.Delay = def.Delay
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Fetch returns the raw HTML bytes for bookID, from cache when available,
// otherwise from the first mirror that answers. All-mirror failure returns
// an error wrapping ErrNotFound.
func (f *Fetcher) Fetch(ctx context.Context, bookID string) ([]byte, error) {
	if f.cfg.CacheDir != "" {
		cached := filepath.Join(f.cfg.CacheDir, bookID+".htm")
		if data, err := os.ReadFile(cached); err == nil {
			logger.Debug("using cached copy", "book", bookID, "path", cached)
			return data, nil
		}
	}

	for _, url := range CandidateURLs(f.cfg.Mirrors, bookID) {
		data, err := f.fetchURL(ctx, url)
		if err != nil {
			logger.Debug("mirror failed", "book", bookID, "url", url, "error", err)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		logger.Debug("downloaded", "book", bookID, "url", url, "bytes", len(data))
		f.cache(bookID, data)
		return data, nil
	}

	return nil, fmt.Errorf("book %s: %w", bookID, ErrNotFound)
}

func (f *Fetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := f.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d", resp.StatusCode)
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(f.cfg.Attempts),
		retry.Delay(f.cfg.Delay),
		retry.LastErrorOnly(true),
	)
	return body, err
}

func (f *Fetcher) cache(bookID string, data []byte) {
	if f.cfg.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(f.cfg.CacheDir, 0o755); err != nil {
		logger.Warn("cannot create cache dir", "dir", f.cfg.CacheDir, "error", err)
		return
	}
	path := filepath.Join(f.cfg.CacheDir, bookID+".htm")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("cannot write cache file", "path", path, "error", err)
	}
}

// CandidateURLs expands mirror templates for a book ID, in order.
func CandidateURLs(mirrors []string, bookID string) []string {
	sub := subfolders(bookID)
	urls := make([]string, 0, len(mirrors))
	for _, m := range mirrors {
		r := strings.NewReplacer("{id}", bookID, "{subfolders}", sub)
		urls = append(urls, r.Replace(m))
	}
	return urls
}

// subfolders builds the aleph-style directory prefix from up to the first
// four digits of the ID: "12345" -> "1/2/3/4".
func subfolders(bookID string) string {
	digits := bookID
	if len(digits) > 4 {
		digits = digits[:4]
	}
	parts := make([]string, len(digits))
	for i, c := range digits {
		parts[i] = string(c)
	}
	return strings.Join(parts, "/")
}

// ExtractBookID pulls the numeric Gutenberg ID out of a document URL of the
// form .../12345-h.htm. It returns "" when the URL has no such component.
func ExtractBookID(rawURL string) string {
	base := path.Base(rawURL)
	base = strings.SplitN(base, ".", 2)[0]
	base = strings.SplitN(base, "-", 2)[0]
	if base == "/" || base == "." {
		return ""
	}
	return base
}
