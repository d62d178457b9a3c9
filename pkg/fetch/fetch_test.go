package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testConfig(mirrors ...string) Config {
	return Config{
		Mirrors:  mirrors,
		Timeout:  2 * time.Second,
		Attempts: 1,
		Delay:    time.Millisecond,
	}
}

func TestFetchFallsBackToNextMirror(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/42/42-h.htm" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte("<html><body><p>hello</p></body></html>"))
	}))
	defer good.Close()

	f := New(testConfig(
		bad.URL+"/files/{id}/{id}-h.htm",
		good.URL+"/files/{id}/{id}-h.htm",
	))

	data, err := f.Fetch(context.Background(), "42")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if want := "<html><body><p>hello</p></body></html>"; string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestFetchAllMirrorsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	f := New(testConfig(srv.URL + "/files/{id}/{id}-h.htm"))

	_, err := f.Fetch(context.Background(), "42")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestFetchWritesAndReadsCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("book body"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL + "/files/{id}/{id}-h.htm")
	cfg.CacheDir = t.TempDir()
	f := New(cfg)

	if _, err := f.Fetch(context.Background(), "99"); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	cached, err := os.ReadFile(filepath.Join(cfg.CacheDir, "99.htm"))
	if err != nil {
		t.Fatalf("cache file: %v", err)
	}
	if string(cached) != "book body" {
		t.Errorf("cache content %q", cached)
	}

	data, err := f.Fetch(context.Background(), "99")
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if string(data) != "book body" {
		t.Errorf("got %q from cache", data)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestCandidateURLs(t *testing.T) {
	mirrors := []string{
		"http://aleph.gutenberg.org/{subfolders}/{id}//{id}-h//{id}-h.htm",
		"https://www.gutenberg.org/files/{id}/{id}-h.htm",
	}
	got := CandidateURLs(mirrors, "12345")
	want := []string{
		"http://aleph.gutenberg.org/1/2/3/4/12345//12345-h//12345-h.htm",
		"https://www.gutenberg.org/files/12345/12345-h.htm",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d urls, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("url %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSubfoldersShortID(t *testing.T) {
	if got := subfolders("7"); got != "7" {
		t.Errorf("got %q, want 7", got)
	}
	if got := subfolders("123"); got != "1/2/3" {
		t.Errorf("got %q, want 1/2/3", got)
	}
}

func TestExtractBookID(t *testing.T) {
	cases := []struct {
		url, want string
	}{
		{"https://www.gutenberg.org/files/1344/1344-h/1344-h.htm", "1344"},
		{"http://aleph.gutenberg.org/2/0/1/2/20121//20121-h//20121-h.htm", "20121"},
		{"https://www.gutenberg.org/cache/epub/98/pg98-images.html", "pg98"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ExtractBookID(tc.url); got != tc.want {
			t.Errorf("ExtractBookID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
