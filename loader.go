package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/sevenzip"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nwaples/rardecode"
	"github.com/patrickmn/go-cache"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// maxRemoteImageBytes caps a single download
const maxRemoteImageBytes = 64 << 20

// ImageLoader decodes images for page slots and thumbnails. Decoded images
// are kept in a small LRU keyed by source key; it is safe for concurrent use.
type ImageLoader struct {
	decoded *lru.Cache[string, image.Image]
	remote  *RemoteFetcher
}

// NewImageLoader creates a loader with the given decoded-cache size
func NewImageLoader(cacheSize int, remote *RemoteFetcher) *ImageLoader {
	decoded, err := lru.New[string, image.Image](cacheSize)
	if err != nil {
		logger().Error("failed to create decoded image cache, using fallback size", "size", cacheSize, "err", err)
		decoded, _ = lru.New[string, image.Image](16)
	}
	return &ImageLoader{decoded: decoded, remote: remote}
}

// Load returns the decoded image for src, fetching remote sources through
// the RemoteFetcher. ctx cancellation aborts in-flight remote requests.
func (l *ImageLoader) Load(ctx context.Context, src ImageSource) (image.Image, error) {
	key := src.Key()
	if img, ok := l.decoded.Get(key); ok {
		debugLog("Cache HIT: %s (cache: %d items)", key, l.decoded.Len())
		return img, nil
	}

	var (
		img image.Image
		err error
	)
	switch {
	case src.URL != nil:
		if l.remote == nil {
			return nil, fmt.Errorf("no remote fetcher configured for %s", key)
		}
		var data []byte
		data, err = l.remote.Fetch(ctx, src.URL)
		if err != nil {
			return nil, err
		}
		img, err = decodeImageBytes(data, key)
	case src.Handle != nil:
		img, err = loadLocalImage(*src.Handle)
	default:
		return nil, fmt.Errorf("empty image source")
	}
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	l.decoded.Add(key, img)
	debugLog("Cache MISS: %s, decoded and cached (cache: %d items)", key, l.decoded.Len())
	return img, nil
}

// Cached reports whether src is already decoded
func (l *ImageLoader) Cached(src ImageSource) bool {
	return l.decoded.Contains(src.Key())
}

// Purge drops every decoded image
func (l *ImageLoader) Purge() {
	l.decoded.Purge()
}

func decodeImageBytes(data []byte, name string) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return img, nil
}

func loadLocalImage(h ImageHandle) (image.Image, error) {
	if h.Image != nil {
		return h.Image, nil
	}
	if h.ArchivePath == "" {
		f, err := os.Open(h.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", h.Path, err)
		}
		return img, nil
	}

	ext := strings.ToLower(filepath.Ext(h.ArchivePath))
	switch ext {
	case ".zip":
		return loadImageFromZip(h.ArchivePath, h.EntryPath)
	case ".rar":
		return loadImageFromRar(h.ArchivePath, h.EntryPath)
	case ".7z":
		return loadImageFrom7z(h.ArchivePath, h.EntryPath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", ext)
	}
}

func loadImageFromZip(archivePath, entryPath string) (image.Image, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entryPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		return decodeImageBytes(data, entryPath)
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func loadImageFromRar(archivePath, entryPath string) (image.Image, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			data, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			return decodeImageBytes(data, entryPath)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func loadImageFrom7z(archivePath, entryPath string) (image.Image, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entryPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		return decodeImageBytes(data, entryPath)
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

// scaleToFit downsizes img so it fits in maxW x maxH, keeping aspect ratio.
// Images already small enough are returned unchanged.
func scaleToFit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	fit := FitRect(float64(b.Dx()), float64(b.Dy()), Rect{W: float64(maxW), H: float64(maxH)})
	w, h := max(1, int(fit.W)), max(1, int(fit.H))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// RemoteFetcher downloads image bytes. Concurrent requests for the same URL
// share one download, downloads are rate limited, and fetched bytes are kept
// for a while so that a purged page coming back into the window is cheap.
type RemoteFetcher struct {
	client  *http.Client
	bytes   *cache.Cache
	group   singleflight.Group
	limiter *rate.Limiter
}

// RemoteOptions configures a RemoteFetcher
type RemoteOptions struct {
	Timeout         time.Duration
	RequestsPerSec  float64
	Burst           int
	CacheExpiration time.Duration
}

// NewRemoteFetcher creates a fetcher; client may be nil for a default one
func NewRemoteFetcher(client *http.Client, opts RemoteOptions) *RemoteFetcher {
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.RequestsPerSec > 0 {
		limit = rate.Limit(opts.RequestsPerSec)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	expiration := opts.CacheExpiration
	if expiration <= 0 {
		expiration = 30 * time.Minute
	}
	return &RemoteFetcher{
		client:  client,
		bytes:   cache.New(expiration, 2*expiration),
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Fetch returns the body of u. The caller's ctx bounds only its own wait;
// a shared download keeps running for other waiters.
func (f *RemoteFetcher) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	key := u.String()
	if data, ok := f.bytes.Get(key); ok {
		return data.([]byte), nil
	}

	ch := f.group.DoChan(key, func() (interface{}, error) {
		data, err := f.download(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		f.bytes.SetDefault(key, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		data, ok := res.Val.([]byte)
		if !ok {
			return nil, fmt.Errorf("unexpected fetch result type %T", res.Val)
		}
		return data, nil
	}
}

func (f *RemoteFetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if len(data) > maxRemoteImageBytes {
		return nil, fmt.Errorf("fetching %s: body exceeds %d bytes", rawURL, maxRemoteImageBytes)
	}
	debugLog("Fetched %s (%d bytes)", rawURL, len(data))
	return data, nil
}
