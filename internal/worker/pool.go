// Package worker runs dispatched jobs on a fixed-size pool. Each slot
// processes one job at a time and drives its state machine through explicit
// Begin/Succeed/Fail calls on the orchestrator.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"license-plate-service/internal/core/domain"
	"license-plate-service/internal/core/services"
)

type Pool struct {
	jobs    *services.JobService
	queue   chan services.Task
	workers int

	// 0 disables the reaper: a crash mid-job leaves the row in STARTED,
	// which is the documented default behavior.
	startedTimeout time.Duration

	wg           sync.WaitGroup
	reaperWg     sync.WaitGroup
	reaperCancel context.CancelFunc
	started      bool
	stopped      bool
	mu           sync.Mutex
}

func NewPool(workers, queueSize int, startedTimeout time.Duration) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		queue:          make(chan services.Task, queueSize),
		workers:        workers,
		startedTimeout: startedTimeout,
	}
}

// Bind attaches the orchestrator. The pool and the job service reference
// each other, so wiring happens in two steps at startup.
func (p *Pool) Bind(jobs *services.JobService) {
	p.jobs = jobs
}

// Enqueue hands a task to the pool without blocking the submitting request.
// After Stop it rejects everything; the queue channel is closed by then.
func (p *Pool) Enqueue(t services.Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return domain.ErrQueueFull
	}
	select {
	case p.queue <- t:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	if p.startedTimeout > 0 {
		reaperCtx, cancel := context.WithCancel(ctx)
		p.reaperCancel = cancel
		p.reaperWg.Add(1)
		go p.runReaper(reaperCtx)
	}
	log.WithField("workers", p.workers).Info("worker pool started")
}

// Stop lets in-flight jobs finish, then returns.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started || p.stopped {
		return
	}
	p.stopped = true
	close(p.queue)
	p.wg.Wait()
	if p.reaperCancel != nil {
		p.reaperCancel()
		p.reaperWg.Wait()
	}
	p.started = false
	log.Info("worker pool stopped")
}

func (p *Pool) runWorker(ctx context.Context, slot int) {
	defer p.wg.Done()
	for task := range p.queue {
		p.execute(ctx, slot, task)
	}
}

func (p *Pool) execute(ctx context.Context, slot int, task services.Task) {
	logger := log.WithFields(log.Fields{
		"slot":   slot,
		"job_id": task.Job.ID,
		"kind":   task.Job.Kind,
	})

	if err := p.jobs.Begin(ctx, task.Job); err != nil {
		logger.WithError(err).Error("mark started failed")
		return
	}
	logger.Info("job started")

	result, err := p.runTask(ctx, task)
	if err != nil {
		logger.WithError(err).Error("job failed")
		if failErr := p.jobs.Fail(ctx, task.Job); failErr != nil {
			logger.WithError(failErr).Error("mark failure failed")
		}
		return
	}

	if err := p.jobs.Succeed(ctx, task.Job, result); err != nil {
		logger.WithError(err).Error("mark success failed")
		return
	}
	logger.Info("job succeeded")
}

// runTask isolates panics so a bad job cannot take down its worker slot.
func (p *Pool) runTask(ctx context.Context, task services.Task) (result *services.TaskResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return task.Run(ctx, task.Job)
}

func (p *Pool) runReaper(ctx context.Context) {
	defer p.reaperWg.Done()
	ticker := time.NewTicker(p.startedTimeout)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reaped, err := p.jobs.ReapStuck(ctx, p.startedTimeout)
			if err != nil {
				log.WithError(err).Warn("reaper pass failed")
				continue
			}
			if reaped > 0 {
				log.WithField("count", reaped).Warn("reaped jobs stuck in STARTED")
			}
		}
	}
}
