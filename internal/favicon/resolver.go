// Package favicon discovers, fetches and caches small website icons.
//
// Discovery is two-staged: a HEAD probe of {origin}/favicon.ico, then a scan
// of the page for <link rel="icon"> or <link rel="shortcut icon">. Every
// failure degrades to "no icon"; only successful lookups are cached.
package favicon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	ico "github.com/biessek/golang-ico"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/nikbrunner/favme/internal/logger"
)

var (
	ErrNoFavicon = errors.New("no favicon found")
	ErrFetch     = errors.New("favicon fetch failed")
	ErrDecode    = errors.New("favicon decode failed")
)

const (
	DefaultProbeTimeout = 3 * time.Second
	DefaultFetchTimeout = 5 * time.Second
	DefaultSize         = 16
	DefaultMaxIconBytes = 1 << 20
)

var icoMagic = []byte{0x00, 0x00, 0x01, 0x00}

// Options configures a Resolver. Zero values select the defaults.
type Options struct {
	Client       *http.Client
	ProbeTimeout time.Duration // HEAD probe and page scrape
	FetchTimeout time.Duration // icon download
	Size         int           // output width and height in pixels
	MaxIconBytes int64
	Logger       logger.Logger
}

// Resolver turns website URLs into decoded, resized icons.
// It is safe for concurrent use.
type Resolver struct {
	client       *http.Client
	probeTimeout time.Duration
	fetchTimeout time.Duration
	size         int
	maxIconBytes int64
	log          logger.Logger

	mu    sync.RWMutex
	cache map[string]image.Image
}

// New creates a Resolver with an empty cache.
func New(opts Options) *Resolver {
	r := &Resolver{
		client:       opts.Client,
		probeTimeout: opts.ProbeTimeout,
		fetchTimeout: opts.FetchTimeout,
		size:         opts.Size,
		maxIconBytes: opts.MaxIconBytes,
		log:          opts.Logger,
		cache:        make(map[string]image.Image),
	}
	if r.client == nil {
		r.client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow redirects but limit to 10
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}
	if r.probeTimeout <= 0 {
		r.probeTimeout = DefaultProbeTimeout
	}
	if r.fetchTimeout <= 0 {
		r.fetchTimeout = DefaultFetchTimeout
	}
	if r.size <= 0 {
		r.size = DefaultSize
	}
	if r.maxIconBytes <= 0 {
		r.maxIconBytes = DefaultMaxIconBytes
	}
	if r.log == nil {
		r.log = logger.Nop()
	}
	return r
}

// Size returns the edge length of resolved icons.
func (r *Resolver) Size() int {
	return r.size
}

// Cached returns the icon previously resolved for the exact rawURL string.
func (r *Resolver) Cached(rawURL string) (image.Image, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.cache[rawURL]
	return img, ok
}

// Len returns the number of cached icons.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Resolve returns the icon for rawURL. Cached icons are returned without
// network activity. Failures are never cached, so the next call repeats
// the full discovery. The error is one of ErrNoFavicon, ErrFetch or
// ErrDecode and is safe to ignore.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (image.Image, error) {
	if img, ok := r.Cached(rawURL); ok {
		return img, nil
	}

	iconURL, err := r.FindIconURL(ctx, rawURL)
	if err != nil {
		r.log.Debug("no favicon", logger.String("url", rawURL), logger.Error(err))
		return nil, err
	}

	img, err := r.fetchImage(ctx, iconURL)
	if err != nil {
		r.log.Warn("favicon unusable",
			logger.String("url", rawURL),
			logger.String("favicon", iconURL),
			logger.Error(err),
		)
		return nil, err
	}

	r.mu.Lock()
	r.cache[rawURL] = img
	r.mu.Unlock()
	return img, nil
}

// FindIconURL runs the two discovery stages and returns the absolute URL
// of the icon without downloading it.
func (r *Resolver) FindIconURL(ctx context.Context, rawURL string) (string, error) {
	target := normalizeURL(rawURL)
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: invalid url %q", ErrNoFavicon, rawURL)
	}
	base := origin(u)

	probeURL := base + "/favicon.ico"
	ok, err := r.probe(ctx, probeURL)
	if err != nil {
		r.log.Debug("favicon probe failed", logger.String("url", probeURL), logger.Error(err))
	}
	if ok {
		return probeURL, nil
	}

	href, err := r.scrape(ctx, target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoFavicon, err)
	}
	if href == "" {
		return "", fmt.Errorf("%w: no icon link on %s", ErrNoFavicon, target)
	}
	return resolveHref(u, href), nil
}

// probe reports whether a HEAD request finds an image at iconURL.
func (r *Resolver) probe(ctx context.Context, iconURL string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, iconURL, nil)
	if err != nil {
		return false, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK &&
		strings.Contains(resp.Header.Get("Content-Type"), "image"), nil
}

// scrape fetches the page and returns the raw href of its first icon link.
func (r *Resolver) scrape(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	return findIconHref(resp.Body)
}

// fetchImage downloads, decodes and resizes the icon at iconURL.
func (r *Resolver) fetchImage(ctx context.Context, iconURL string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxIconBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if int64(len(data)) > r.maxIconBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrFetch, r.maxIconBytes)
	}

	src, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return resize(src, r.size), nil
}

func decode(data []byte) (image.Image, error) {
	if bytes.HasPrefix(data, icoMagic) {
		return ico.Decode(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// resize scales src to size x size with Catmull-Rom resampling.
func resize(src image.Image, size int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
