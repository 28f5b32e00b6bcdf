package diagram

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultWorkers bounds concurrent rendering sessions within one document.
// Chrome pages are memory-hungry; a small fixed cap keeps a many-diagram
// document from fanning out.
const DefaultWorkers = 2

// Sink stores a successful render and returns its artifact id. Satisfied by
// the artifact store.
type Sink interface {
	Put(data []byte) string
}

// RenderAll renders every job with bounded concurrency and does not return
// until all jobs are terminal: the call is the synchronization barrier
// between the render stage and the replace stage.
//
// Failure policy: a job whose live render fails (or times out) falls back to
// the placeholder renderer and is marked failed with its cause recorded; the
// batch continues. When the backend itself is unavailable the remaining jobs
// skip the live attempt entirely, and the condition is logged once per
// document rather than once per job. A job is attempted at most once against
// the live backend.
func RenderAll(ctx context.Context, jobs []*Job, live, fallback Renderer, workers int, sink Sink, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = DefaultWorkers
	}

	var degraded atomic.Bool
	if live == nil {
		degraded.Store(true)
		logger.Warn("diagram backend not configured; rendering placeholders only")
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(j *Job) {
			defer wg.Done()
			defer func() { <-sem }()
			renderOne(ctx, j, live, fallback, &degraded, sink, logger)
		}(job)
	}

	wg.Wait()
}

// renderOne drives a single job to a terminal status.
func renderOne(ctx context.Context, j *Job, live, fallback Renderer, degraded *atomic.Bool, sink Sink, logger *slog.Logger) {
	if !degraded.Load() {
		data, err := live.Render(ctx, j.Source)
		if err == nil {
			j.ArtifactID = sink.Put(data)
			j.Status = StatusRendered
			return
		}

		j.Err = err
		if errors.Is(err, ErrBackendUnavailable) {
			// Log the global condition once, not once per job.
			if degraded.CompareAndSwap(false, true) {
				logger.Warn("diagram backend unavailable; degrading to placeholders", "error", err)
			}
		} else {
			logger.Warn("diagram render failed; substituting placeholder",
				"block", j.BlockIndex, "error", err)
		}
	}

	if j.Err == nil {
		j.Err = ErrBackendUnavailable
	}
	j.Status = StatusFailed

	data, err := fallback.Render(ctx, j.Source)
	if err != nil {
		// No image at all; the replacer will leave the diagram source visible.
		logger.Warn("placeholder render failed; keeping diagram source",
			"block", j.BlockIndex, "error", err)
		return
	}
	j.ArtifactID = sink.Put(data)
}
