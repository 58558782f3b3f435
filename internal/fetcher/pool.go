// Package fetcher runs concurrent Wikipedia lookups through a worker
// pool. Throttling happens inside the client's shared rate limiter, so
// adding workers raises concurrency without raising the request rate.
package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"librarian/pkg/logger"
	"librarian/pkg/wikipedia"
)

// Job names one page to look up
type Job struct {
	Title    string
	Language string
}

// Result is the outcome of one lookup
type Result struct {
	Job      Job
	Summary  *wikipedia.PageSummary
	Err      error
	Duration time.Duration
}

// SummaryClient is the slice of the Wikipedia client the pool needs
type SummaryClient interface {
	PageSummary(title string) (*wikipedia.PageSummary, error)
}

// ClientFunc yields a client for the job's language edition
type ClientFunc func(language string) SummaryClient

// Pool manages concurrent lookup workers
type Pool struct {
	numWorkers int
	jobs       chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	clients    ClientFunc
	logger     logger.Logger
}

// NewPool creates a lookup pool with the given number of workers
func NewPool(numWorkers int, clients ClientFunc, log logger.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = 3
	}
	if log == nil {
		log = logger.GetLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numWorkers*2),
		results:    make(chan Result, numWorkers),
		ctx:        ctx,
		cancel:     cancel,
		clients:    clients,
		logger:     log,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.logger.DebugWithFields("starting lookup pool", map[string]interface{}{
		"workers": p.numWorkers,
	})

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop drains the queue, waits for workers to finish and closes the
// results channel
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	p.cancel()
}

// Submit queues one lookup. Fails once the pool has stopped; callers
// must not race Submit against Stop.
func (p *Pool) Submit(job Job) error {
	select {
	case <-p.ctx.Done():
		return fmt.Errorf("lookup pool is shutting down")
	default:
	}

	select {
	case p.jobs <- job:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("lookup pool is shutting down")
	}
}

// Results returns the channel lookup outcomes arrive on
func (p *Pool) Results() <-chan Result {
	return p.results
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		result := p.lookup(job)

		select {
		case p.results <- result:
		case <-p.ctx.Done():
			return
		}

		if result.Err != nil {
			p.logger.WarnWithFields("lookup failed", map[string]interface{}{
				"worker": id,
				"title":  job.Title,
				"error":  result.Err.Error(),
			})
		}
	}
}

func (p *Pool) lookup(job Job) Result {
	start := time.Now()

	summary, err := p.clients(job.Language).PageSummary(job.Title)
	return Result{
		Job:      job,
		Summary:  summary,
		Err:      err,
		Duration: time.Since(start),
	}
}
