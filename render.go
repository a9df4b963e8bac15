package largeview

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// RegionDecoder decodes a rectangle of an image. *RegionSource implements
// it.
type RegionDecoder interface {
	DecodeRegion(rect ViewRect, sampleSize int) (image.Image, error)
}

// Frame is a decoded rectangle ready to be drawn at the surface origin.
type Frame struct {
	// Seq increases by one for every completed frame.
	Seq    uint64
	Rect   ViewRect
	Pixels image.Image
}

// RenderStats counts renderer activity.
type RenderStats struct {
	Requested  uint64
	Decoded    uint64
	Superseded uint64
	Failed     uint64
	LastErr    error
	LastDecode time.Duration
}

// RendererOptions configures a Renderer.
type RendererOptions struct {
	// Async runs decodes on a separate goroutine. When false, Request
	// decodes before returning.
	Async bool
	// SampleSize is passed to DecodeRegion. Values below 1 mean 1.
	SampleSize int
	Logger     *slog.Logger
}

// Renderer schedules region decodes for a single decoder. At most one decode
// is in flight. A request made while a decode runs supersedes any request
// still waiting; when the running decode finishes, its result is dropped if
// it is stale and the newest rectangle is decoded next. A failed decode
// leaves the previous frame in place and is not retried.
type Renderer struct {
	src    RegionDecoder
	opts   RendererOptions
	logger *slog.Logger

	// sem holds the single decode slot. It is acquired and released only
	// while mu is held, except by Wait.
	sem *semaphore.Weighted

	mu       sync.Mutex
	want     ViewRect
	wantGen  uint64
	doneGen  uint64
	frame    Frame
	hasFrame bool
	stats    RenderStats
}

// NewRenderer creates a renderer decoding from src.
func NewRenderer(src RegionDecoder, opts RendererOptions) *Renderer {
	if opts.SampleSize < 1 {
		opts.SampleSize = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Renderer{
		src:    src,
		opts:   opts,
		logger: logger,
		sem:    semaphore.NewWeighted(1),
	}
}

// SampleSize returns the downsampling factor applied to every decode.
func (r *Renderer) SampleSize() int {
	return r.opts.SampleSize
}

// Request asks for rect to be decoded. rect must be a snapshot taken on the
// controller's goroutine.
func (r *Renderer) Request(rect ViewRect) {
	r.mu.Lock()
	r.wantGen++
	r.want = rect
	r.stats.Requested++
	acquired := r.sem.TryAcquire(1)
	r.mu.Unlock()

	if !acquired {
		return
	}
	if r.opts.Async {
		go r.run()
	} else {
		r.run()
	}
}

// run decodes the newest wanted rectangle until no newer one is waiting. The
// caller must hold the decode slot; run releases it.
func (r *Renderer) run() {
	for {
		r.mu.Lock()
		rect, gen := r.want, r.wantGen
		r.mu.Unlock()

		start := time.Now()
		img, err := r.src.DecodeRegion(rect, r.opts.SampleSize)
		elapsed := time.Since(start)

		r.mu.Lock()
		latest := gen == r.wantGen
		switch {
		case err != nil:
			r.stats.Failed++
			r.stats.LastErr = err
			r.logger.Warn("region decode failed, keeping previous frame",
				"rect", rect.String(), "err", err)
		case !latest:
			r.stats.Superseded++
			r.logger.Debug("discarding superseded frame", "rect", rect.String())
		default:
			r.frame = Frame{Seq: r.frame.Seq + 1, Rect: rect, Pixels: img}
			r.hasFrame = true
			r.stats.Decoded++
			r.stats.LastDecode = elapsed
		}
		if latest {
			r.doneGen = gen
			r.sem.Release(1)
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
	}
}

// Frame returns the newest completed frame. ok is false until the first
// decode succeeds.
func (r *Renderer) Frame() (f Frame, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame, r.hasFrame
}

// Stats returns a copy of the renderer counters.
func (r *Renderer) Stats() RenderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Wait blocks until no decode is in flight and every request has been
// served, or ctx is done.
func (r *Renderer) Wait(ctx context.Context) error {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	r.mu.Lock()
	if r.wantGen == r.doneGen {
		r.sem.Release(1)
		r.mu.Unlock()
		return nil
	}
	// A request arrived while the slot was handed to us; serve it here.
	r.mu.Unlock()
	r.run()
	return nil
}
