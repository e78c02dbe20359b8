// Package processing is a small in-process worker pool for fire-and-forget
// work such as mirroring records to the remote store. Goroutines + a buffered
// channel power the implementation.
package processing

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Task is one unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pool consumes Tasks on a fixed number of goroutines.
type Pool struct {
	queue   chan Task
	workers int
	log     *zap.Logger
	wg      sync.WaitGroup
}

// New builds a Pool with queue capacity tied to worker count.
func New(workers int, log *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{
		queue:   make(chan Task, workers*16),
		workers: workers,
		log:     log,
	}
}

// Start launches worker goroutines. They exit when ctx is cancelled; tasks
// still queued at that point are dropped.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Submit queues a task. It never blocks: when the buffer is full the task is
// dropped and false is returned.
func (p *Pool) Submit(t Task) bool {
	select {
	case p.queue <- t:
		return true
	default:
		p.log.Warn("background queue full, dropping task", zap.String("task", t.Name))
		return false
	}
}

// Go adapts Submit to the controller's runner interface.
func (p *Pool) Go(name string, fn func(ctx context.Context) error) {
	p.Submit(Task{Name: name, Run: fn})
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.queue:
			p.process(ctx, t)
		}
	}
}

func (p *Pool) process(ctx context.Context, t Task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("background task panicked", zap.String("task", t.Name), zap.Any("panic", r))
		}
	}()
	if err := t.Run(ctx); err != nil {
		// Background work is best-effort; the caller already has its result.
		p.log.Debug("background task failed", zap.String("task", t.Name), zap.Error(err))
	}
}
