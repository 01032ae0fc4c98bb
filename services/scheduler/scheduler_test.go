package schedulersvc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhue26/Sample-sub000/services/logger"
)

type countingJob struct {
	mu   sync.Mutex
	runs int
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	return j.err
}

func TestScheduler_Add(t *testing.T) {
	s := New(logsvc.NewNopLogger(), time.Minute)

	assert.Error(t, s.Add("not a spec", &countingJob{}))
	require.NoError(t, s.Add("0 18 * * 0", &countingJob{}))

	next := s.Next()
	require.Len(t, next, 1)
	assert.True(t, next[0].IsZero(), "next run is only computed once started")

	s.Start()
	defer func() { assert.NoError(t, s.Stop(context.Background())) }()

	require.Eventually(t, func() bool {
		n := s.Next()
		return len(n) == 1 && !n[0].IsZero()
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, time.Sunday, s.Next()[0].Weekday())
	assert.Equal(t, 18, s.Next()[0].Hour())
}

func TestScheduler_run(t *testing.T) {
	s := New(logsvc.NewNopLogger(), time.Minute)

	ok := &countingJob{}
	s.run(ok)
	s.run(ok)
	assert.Equal(t, 2, ok.runs)

	failing := &countingJob{err: errors.New("boom")}
	s.run(failing) // logged, not propagated
	assert.Equal(t, 1, failing.runs)
}
