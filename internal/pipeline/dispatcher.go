package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Dispatcher runs pipeline processing asynchronously, bounded by a weighted
// semaphore so a burst of uploads cannot saturate the process. It implements
// documents.Dispatcher.
type Dispatcher struct {
	rt   *Runtime
	base context.Context
	sem  *semaphore.Weighted
	wg   sync.WaitGroup
}

// NewDispatcher creates a Dispatcher bounded to maxConcurrency simultaneous
// pipeline runs. The base context should come from the application lifecycle:
// cancellation stops queued runs from starting, while started runs proceed to
// completion or first failure and are collected by Drain.
func NewDispatcher(rt *Runtime, base context.Context, maxConcurrency int64) *Dispatcher {
	return &Dispatcher{
		rt:   rt,
		base: base,
		sem:  semaphore.NewWeighted(maxConcurrency),
	}
}

// Dispatch queues a document for processing and returns immediately. The run
// outcome is recorded on the document and its stage runs, not returned here.
func (d *Dispatcher) Dispatch(id uuid.UUID) {
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		if err := d.sem.Acquire(d.base, 1); err != nil {
			d.rt.Logger.Warn("dispatch cancelled before start", "id", id, "error", err)
			return
		}
		defer d.sem.Release(1)

		// Once started, a run must not be cut off mid-stage by shutdown;
		// a cancelled run would strand the document as processing with no
		// failed marker. Drain waits for it instead.
		if err := Process(context.WithoutCancel(d.base), d.rt, id); err != nil {
			d.rt.Logger.Error("pipeline run failed", "id", id, "error", err)
		}
	}()
}

// Drain blocks until all dispatched runs have finished. Intended for use in
// a shutdown hook after the lifecycle context is cancelled.
func (d *Dispatcher) Drain() {
	d.wg.Wait()
}
