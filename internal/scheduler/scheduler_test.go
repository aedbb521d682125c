package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/logger"
)

type countingJob struct {
	name  string
	runs  int32
	err   error
	sched string
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.sched }
func (j *countingJob) Run(ctx context.Context) error {
	atomic.AddInt32(&j.runs, 1)
	return j.err
}

func testScheduler() *Scheduler {
	return New(logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}))
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := testScheduler()
	job := &countingJob{name: "sweep", sched: "0 */15 * * * *"}

	require.NoError(t, s.AddJob(job))
	err := s.AddJob(job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := testScheduler()
	err := s.AddJob(&countingJob{name: "bad", sched: "not a cron expr"})
	require.Error(t, err)
}

func TestRunRecordsHistory(t *testing.T) {
	s := testScheduler()
	job := &countingJob{name: "sweep", sched: "0 0 3 * * *"}
	require.NoError(t, s.AddJob(job))

	s.run(job)
	s.run(job)

	history := s.History("sweep")
	require.Len(t, history, 2)
	assert.True(t, history[0].Success)
	assert.Equal(t, "sweep", history[0].JobName)
	assert.Equal(t, int32(2), atomic.LoadInt32(&job.runs))
}

func TestRunRecordsFailure(t *testing.T) {
	s := testScheduler()
	job := &countingJob{name: "flaky", sched: "0 0 3 * * *", err: errors.New("boom")}
	require.NoError(t, s.AddJob(job))

	s.run(job)

	history := s.History("flaky")
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
	assert.Equal(t, "boom", history[0].Error)
}

func TestHistoryIsBounded(t *testing.T) {
	s := testScheduler()
	job := &countingJob{name: "busy", sched: "0 0 3 * * *"}
	require.NoError(t, s.AddJob(job))

	for i := 0; i < historyCap+10; i++ {
		s.run(job)
	}
	assert.Len(t, s.History("busy"), historyCap)
}

func TestRunNowUnknownJob(t *testing.T) {
	s := testScheduler()
	err := s.RunNow("missing")
	require.Error(t, err)
}

func TestJobsLists(t *testing.T) {
	s := testScheduler()
	require.NoError(t, s.AddJob(&countingJob{name: "a", sched: "@hourly"}))
	require.NoError(t, s.AddJob(&countingJob{name: "b", sched: "@daily"}))
	assert.ElementsMatch(t, []string{"a", "b"}, s.Jobs())
}
