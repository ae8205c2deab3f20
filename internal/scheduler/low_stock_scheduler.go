package scheduler

import (
	"context"
	"time"

	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

// Job is a unit of scheduled work returning how many items it handled
type Job interface {
	Run(ctx context.Context) (int, error)
}

// LowStockScheduler periodically emails the low-stock report
type LowStockScheduler struct {
	cron *cron.Cron
	spec string
	job  Job
}

func NewLowStockScheduler(spec string, job Job) *LowStockScheduler {
	return &LowStockScheduler{
		cron: cron.New(),
		spec: spec,
		job:  job,
	}
}

func (s *LowStockScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runOnce)
	if err != nil {
		logger.Error("Failed to add cron job for low stock report", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Low stock scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *LowStockScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Info("Starting scheduled low stock report")
	count, err := s.job.Run(ctx)
	if err != nil {
		logger.Error("Low stock report failed", err)
		return
	}
	logger.Info("Low stock report finished", map[string]interface{}{
		"products": count,
	})
}

// Stop waits for a running job to finish
func (s *LowStockScheduler) Stop() {
	logger.Info("Stopping low stock scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Low stock scheduler stopped")
}
