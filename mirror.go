package manseg

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/manseg/segment"
)

// BuildMirror allocates a fresh full-precision array and bulk-decodes
// the segmented storage into it, blocking until every element is
// filled. The fill is partitioned across worker goroutines (see
// WithFillWorkers); the internal barrier guarantees the mirror is
// fully populated when BuildMirror returns.
//
// Each mirror element is decoded from the head segment only. Elements
// written via SetFull still mirror at head precision: the mirror
// captures the state of the reduced view it upgrades from, never the
// tail cells.
//
// A second BuildMirror while a mirror exists returns ErrMirrorExists
// instead of silently reallocating; release the old mirror first.
func (a *Array) BuildMirror(ctx context.Context) error {
	start := time.Now()
	err := a.buildMirror(ctx)
	a.metrics.RecordMirrorBuild(a.length, time.Since(start), err)
	a.logger.LogMirrorBuild(a.length, err)
	return err
}

// MirrorBuild is the handle of a background mirror build. The mirror
// must not be read until Wait has returned nil.
type MirrorBuild struct {
	err  error
	done chan struct{}
}

// Wait blocks until the build finishes and returns its result.
func (b *MirrorBuild) Wait() error {
	<-b.done
	return b.err
}

// BuildMirrorAsync starts the mirror build in the background and
// returns a handle the caller awaits before the first mirror read.
// When a resource controller is configured, the build occupies one of
// its background slots for its whole duration.
//
// Precondition failures (released storage, existing mirror) are
// reported synchronously. Other Array operations on disjoint elements
// may proceed while the build runs; building two mirrors on the same
// Array concurrently is out of contract.
func (a *Array) BuildMirrorAsync(ctx context.Context) (*MirrorBuild, error) {
	if a.buf.released.Load() {
		return nil, ErrReleased
	}
	if a.mirror != nil {
		return nil, ErrMirrorExists
	}

	if err := a.controller.AcquireBackground(ctx); err != nil {
		return nil, err
	}

	b := &MirrorBuild{done: make(chan struct{})}
	start := time.Now()

	go func() {
		defer close(b.done)
		defer a.controller.ReleaseBackground()

		b.err = a.buildMirror(ctx)
		a.metrics.RecordMirrorBuild(a.length, time.Since(start), b.err)
		a.logger.LogMirrorBuild(a.length, b.err)
	}()

	return b, nil
}

func (a *Array) buildMirror(ctx context.Context) error {
	if a.buf.released.Load() {
		return ErrReleased
	}
	if a.mirror != nil {
		return ErrMirrorExists
	}

	mirrorMem := int64(a.length) * 8
	if !a.controller.TryAcquireMemory(mirrorMem) {
		return fmt.Errorf("%w: mirror for %d elements exceeds memory limit", ErrAllocationFailure, a.length)
	}

	workers := a.fillWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	mirror := make([]float64, a.length)
	heads := a.buf.heads

	// Disjoint index ranges per worker; no element is touched twice.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunk := (a.length + workers - 1) / workers
	for lo := 0; lo < a.length; lo += chunk {
		hi := lo + chunk
		if hi > a.length {
			hi = a.length
		}

		g.Go(func() error {
			if err := a.controller.AcquireFill(gctx, hi-lo); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				mirror[i] = segment.DecodeHead(heads[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.controller.ReleaseMemory(mirrorMem)
		return err
	}

	a.mirror = mirror
	a.mirrorMem = mirrorMem
	a.mirrorReleased = false
	return nil
}
