// Package assets keeps the pixel data behind image elements. Sources are
// registered synchronously and decoded on a goroutine; completion is posted
// back to the UI thread so renders never race a half-decoded image.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const MIMESVG = "image/svg+xml"

// svgScale oversamples vector sources so they stay crisp when enlarged.
const svgScale = 2

var (
	ErrUnsupported = errors.New("unsupported image format")
	ErrEmptySVG    = errors.New("svg has no drawable area")
)

type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Info is what can be learnt about a source without decoding its pixels.
type Info struct {
	MIME   string
	Width  float64
	Height float64
}

type entry struct {
	status Status
	info   Info
	source []byte
	img    image.Image
	err    error
}

// Registry maps opaque handles to image sources and their decoded pixels.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	post    func(func())
	logger  *slog.Logger

	onDecoded func(handle string, err error)
}

// NewRegistry creates a registry. post schedules a callback on the UI
// thread; pass a function that simply calls its argument when there is no
// UI loop.
func NewRegistry(post func(func()), logger *slog.Logger) *Registry {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries: make(map[string]*entry),
		post:    post,
		logger:  logger,
	}
}

// OnDecoded sets the callback run on the UI thread when a decode finishes.
func (r *Registry) OnDecoded(fn func(handle string, err error)) {
	r.mu.Lock()
	r.onDecoded = fn
	r.mu.Unlock()
}

// Inspect reads the format and intrinsic size of src.
func Inspect(src []byte) (Info, error) {
	mime := Sniff(src)
	if mime == MIMESVG {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(src), oksvg.IgnoreErrorMode)
		if err != nil {
			return Info{}, fmt.Errorf("parse svg: %w", err)
		}
		if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
			return Info{}, ErrEmptySVG
		}
		return Info{MIME: mime, Width: icon.ViewBox.W, Height: icon.ViewBox.H}, nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return Info{MIME: "image/" + format, Width: float64(cfg.Width), Height: float64(cfg.Height)}, nil
}

// Sniff returns the MIME type of src, recognising SVG documents that
// content sniffing reports as plain text or XML.
func Sniff(src []byte) string {
	head := src
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(bytes.ToLower(head), []byte("<svg")) {
		return MIMESVG
	}
	mime := http.DetectContentType(src)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return mime
}

// Add registers src and starts decoding it in the background. The returned
// handle is usable immediately; its pixels become available once ready.
func (r *Registry) Add(src []byte, info Info) string {
	handle := uuid.NewString()
	r.Restore(handle, src, info)
	return handle
}

// Restore registers src under a known handle, as when a saved project is
// reopened.
func (r *Registry) Restore(handle string, src []byte, info Info) {
	e := &entry{status: StatusPending, info: info, source: src}
	r.mu.Lock()
	r.entries[handle] = e
	r.mu.Unlock()

	go func() {
		img, err := decode(src, info)
		r.post(func() { r.finish(handle, e, img, err) })
	}()
}

func (r *Registry) finish(handle string, e *entry, img image.Image, err error) {
	r.mu.Lock()
	if r.entries[handle] != e {
		// replaced or dropped while decoding
		r.mu.Unlock()
		return
	}
	if err != nil {
		e.status = StatusFailed
		e.err = err
	} else {
		e.status = StatusReady
		e.img = img
	}
	cb := r.onDecoded
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("image decode failed", "handle", handle, "mime", e.info.MIME, "error", err)
	} else {
		r.logger.Debug("image decoded", "handle", handle, "mime", e.info.MIME)
	}
	if cb != nil {
		cb(handle, err)
	}
}

// Image returns decoded pixels for handle. It reports false while the
// decode is pending and forever after a failed decode.
func (r *Registry) Image(handle string) (image.Image, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[handle]
	if !ok || e.status != StatusReady {
		return nil, false
	}
	return e.img, true
}

func (r *Registry) Status(handle string) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[handle]
	if !ok {
		return StatusFailed, false
	}
	return e.status, true
}

// Source returns the original bytes and MIME type behind handle.
func (r *Registry) Source(handle string) ([]byte, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[handle]
	if !ok {
		return nil, "", false
	}
	return e.source, e.info.MIME, true
}

// Ready reports whether handle has decoded pixels.
func (r *Registry) Ready(handle string) bool {
	_, ok := r.Image(handle)
	return ok
}

// Reset drops every entry. In-flight decodes finish into the void.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.entries = make(map[string]*entry)
	r.mu.Unlock()
}

func decode(src []byte, info Info) (image.Image, error) {
	if info.MIME == MIMESVG {
		return rasterizeSVG(src, svgScale)
	}
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", info.MIME, err)
	}
	return img, nil
}

// rasterizeSVG renders an SVG document at scale times its viewBox size.
func rasterizeSVG(src []byte, scale float64) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(src), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	w := int(icon.ViewBox.W * scale)
	h := int(icon.ViewBox.H * scale)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptySVG
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}
