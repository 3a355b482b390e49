package scheduler

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingJob struct {
	ctx context.Context
	ran bool
}

func (j *recordingJob) Run(ctx context.Context) error {
	j.ctx = ctx
	j.ran = true
	return nil
}

func (j *recordingJob) Name() string { return "recording" }

func TestRunNowPassesLiveContext(t *testing.T) {
	s := New(zerolog.Nop())
	job := &recordingJob{}

	require.NoError(t, s.RunNow(job))
	require.True(t, job.ran)
	assert.NoError(t, job.ctx.Err())
}

func TestStopCancelsJobContext(t *testing.T) {
	s := New(zerolog.Nop())
	job := &recordingJob{}

	require.NoError(t, s.RunNow(job))
	s.Stop()

	assert.ErrorIs(t, job.ctx.Err(), context.Canceled)
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(zerolog.Nop())

	assert.Error(t, s.AddJob("not a schedule", &recordingJob{}))
	assert.NoError(t, s.AddJob("@daily", &recordingJob{}))
}
