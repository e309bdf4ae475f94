package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dsmirnov/coursegate/internal/domain/model"
)

// ProvisionFacade exposes the subset of application functionality required by the worker.
type ProvisionFacade interface {
	UnprovisionedItems(ctx context.Context, limit int) ([]model.ProvisionJob, error)
	ProvisionItem(ctx context.Context, job model.ProvisionJob) (*model.Enrollment, bool, error)
}

// Provisioner retries enrollment provisioning for paid order items that were
// left behind by a failed webhook fan-out. The conditional provisioned_at
// write makes racing with the webhook path safe.
type Provisioner struct {
	facade       ProvisionFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.ProvisionJob
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewProvisioner constructs provisioner worker pool.
func NewProvisioner(facade ProvisionFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Provisioner {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Provisioner{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.ProvisionJob, batchSize*workers),
	}
}

// Start launches background processing.
func (p *Provisioner) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *Provisioner) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Provisioner) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *Provisioner) fetchAndDispatch(ctx context.Context) {
	jobs, err := p.facade.UnprovisionedItems(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch unprovisioned items failed", slog.String("error", err.Error()))
		return
	}
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- job:
		}
	}
}

func (p *Provisioner) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleJob(ctx, job)
		}
	}
}

func (p *Provisioner) handleJob(ctx context.Context, job model.ProvisionJob) {
	enrollment, fresh, err := p.facade.ProvisionItem(ctx, job)
	if err != nil {
		p.logger.Error("provision item failed",
			slog.String("order", job.OrderNumber),
			slog.String("course", job.CourseID),
			slog.String("error", err.Error()))
		return
	}
	if !fresh {
		// another worker or the webhook path got there first
		return
	}
	p.logger.Info("enrollment provisioned",
		slog.String("order", job.OrderNumber),
		slog.String("student", enrollment.StudentEmail),
		slog.String("course", enrollment.CourseID))
}
