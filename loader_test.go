package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageLoaderLocal(t *testing.T) {
	handles := writeTestPNGs(t, 2)
	loader := NewImageLoader(4, nil)
	src := ImageSource{Handle: &handles[1]}

	if loader.Cached(src) {
		t.Fatal("Expected an empty cache")
	}
	img, err := loader.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 9 || b.Dy() != 6 {
		t.Errorf("Expected 9x6 image, got %v", b)
	}
	if !loader.Cached(src) {
		t.Error("Expected the image to be cached after Load")
	}

	// A cache hit must not touch the file again
	if err := os.Remove(handles[1].Path); err != nil {
		t.Fatal(err)
	}
	if _, err := loader.Load(context.Background(), src); err != nil {
		t.Errorf("Expected a cache hit, got %v", err)
	}

	loader.Purge()
	if _, err := loader.Load(context.Background(), src); err == nil {
		t.Error("Expected an error after purge with the file removed")
	}
}

func TestImageLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(broken, []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse("https://example.com/a.png")

	tests := []struct {
		name string
		src  ImageSource
	}{
		{"Empty source", ImageSource{}},
		{"Missing file", ImageSource{Handle: &ImageHandle{Path: filepath.Join(dir, "missing.png")}}},
		{"Undecodable file", ImageSource{Handle: &ImageHandle{Path: broken}}},
		{"Remote without fetcher", ImageSource{URL: u}},
		{"Unknown archive", ImageSource{Handle: &ImageHandle{Path: "a.tar:x.png", ArchivePath: "a.tar", EntryPath: "x.png"}}},
	}

	loader := NewImageLoader(4, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loader.Load(context.Background(), tt.src); err == nil {
				t.Error("Expected an error")
			}
			if loader.Cached(tt.src) {
				t.Error("Failed loads must not be cached")
			}
		})
	}
}

func TestImageLoaderZipEntry(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "book.zip")
	writeTestZip(t, archive, "empty.png")

	loader := NewImageLoader(4, nil)
	h := archiveEntry(archive, "empty.png")
	if _, err := loader.Load(context.Background(), ImageSource{Handle: &h}); err == nil {
		t.Error("Expected a decode error for an empty entry")
	}
	h = archiveEntry(archive, "missing.png")
	_, err := loader.Load(context.Background(), ImageSource{Handle: &h})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected a not found error, got %v", err)
	}
}

func TestImageLoaderInMemory(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	h := ImageHandle{Image: img}
	loader := NewImageLoader(4, nil)

	got, err := loader.Load(context.Background(), ImageSource{Handle: &h})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != image.Image(img) {
		t.Error("Expected the in-memory image to be returned as is")
	}
}

func TestRemoteFetcher(t *testing.T) {
	body := encodePNG(t, 4, 2)
	var hits atomic.Int32
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/slow.png":
			<-release
			w.Write(body)
		case "/ok.png":
			w.Write(body)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	fetcher := NewRemoteFetcher(srv.Client(), RemoteOptions{Timeout: 5 * time.Second})
	loader := NewImageLoader(4, fetcher)
	mustURL := func(p string) *url.URL {
		u, err := url.Parse(srv.URL + p)
		if err != nil {
			t.Fatal(err)
		}
		return u
	}

	t.Run("decodes", func(t *testing.T) {
		img, err := loader.Load(context.Background(), ImageSource{URL: mustURL("/ok.png")})
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
			t.Errorf("Expected 4x2 image, got %v", b)
		}
	})

	t.Run("status error", func(t *testing.T) {
		_, err := loader.Load(context.Background(), ImageSource{URL: mustURL("/missing.png")})
		if err == nil || !strings.Contains(err.Error(), "unexpected status") {
			t.Errorf("Expected a status error, got %v", err)
		}
	})

	t.Run("bytes cached", func(t *testing.T) {
		before := hits.Load()
		if _, err := fetcher.Fetch(context.Background(), mustURL("/ok.png")); err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if hits.Load() != before {
			t.Error("Expected fetched bytes to be served from the cache")
		}
	})

	t.Run("concurrent requests share a download", func(t *testing.T) {
		before := hits.Load()
		u := mustURL("/slow.png")
		var wg sync.WaitGroup
		errs := make(chan error, 3)
		for range 3 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := fetcher.Fetch(context.Background(), u)
				errs <- err
			}()
		}
		// Give the goroutines time to join the in-flight request
		time.Sleep(100 * time.Millisecond)
		close(release)
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Errorf("Fetch failed: %v", err)
			}
		}
		if n := hits.Load() - before; n != 1 {
			t.Errorf("Expected one download, got %d", n)
		}
	})

	t.Run("cancelled wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := loader.Load(ctx, ImageSource{URL: mustURL("/other.png")}); err == nil {
			t.Error("Expected an error for a cancelled context")
		}
	})
}

func TestScaleToFit(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
		wantW      int
		wantH      int
	}{
		{"Already small", 50, 40, 100, 100, 50, 40},
		{"Wide", 400, 100, 100, 100, 100, 25},
		{"Tall", 100, 400, 100, 100, 25, 100},
		{"Degenerate", 1000, 1, 100, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := scaleToFit(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.maxW, tt.maxH)
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("scaleToFit(%dx%d) = %dx%d, want %dx%d", tt.w, tt.h, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}
