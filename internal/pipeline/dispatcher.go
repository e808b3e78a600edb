package pipeline

import (
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/events"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/log"
)

// Dispatcher launches one concurrent pipeline execution per start signal.
// Dispatch never blocks the caller: the optional concurrency cap is
// acquired inside the spawned goroutine.
type Dispatcher struct {
	pipeline *Pipeline
	hub      *events.Hub
	sem      *semaphore.Weighted
	wg       sync.WaitGroup
}

// NewDispatcher wraps a pipeline. maxConcurrent 0 means unlimited.
func NewDispatcher(p *Pipeline, hub *events.Hub, maxConcurrent int64) *Dispatcher {
	d := &Dispatcher{
		pipeline: p,
		hub:      hub,
	}
	if maxConcurrent > 0 {
		d.sem = semaphore.NewWeighted(maxConcurrent)
	}
	return d
}

// Dispatch starts the job in the background and returns immediately. The
// job context derives from the session, so a detached session cancels its
// in-flight work.
func (d *Dispatcher) Dispatch(job Job) {
	ctx := d.hub.Context(job.SessionID)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if d.sem != nil {
			if err := d.sem.Acquire(ctx, 1); err != nil {
				log.Info("Job %s: session detached before start: %v", job.ID, err)
				return
			}
			defer d.sem.Release(1)
		}

		d.pipeline.Run(ctx, job)
	}()
}

// Wait blocks until all dispatched jobs have finished. Used on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
