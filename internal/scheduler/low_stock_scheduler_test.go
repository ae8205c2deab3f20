package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	calls atomic.Int32
	err   error
}

func (j *countingJob) Run(ctx context.Context) (int, error) {
	j.calls.Add(1)
	return 3, j.err
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := NewLowStockScheduler("not a cron spec", &countingJob{})
	assert.Error(t, s.Start())
}

func TestRunOnceInvokesJob(t *testing.T) {
	job := &countingJob{}
	s := NewLowStockScheduler("0 8 * * *", job)
	s.runOnce()
	assert.Equal(t, int32(1), job.calls.Load())

	job.err = errors.New("smtp down")
	s.runOnce()
	assert.Equal(t, int32(2), job.calls.Load())
}

func TestStartAndStop(t *testing.T) {
	s := NewLowStockScheduler("0 8 * * *", &countingJob{})
	assert.NoError(t, s.Start())
	s.Stop()
}
