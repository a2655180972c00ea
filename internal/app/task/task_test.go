package task

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	swept     int
	purged    int
	purgeErr  error
	olderThan time.Duration
	calls     int
}

func (f *fakeSweeper) Sweep() int {
	f.calls++
	return f.swept
}

func (f *fakeSweeper) PurgeOrphanPreviews(olderThan time.Duration) (int, error) {
	f.olderThan = olderThan
	return f.purged, f.purgeErr
}

func TestSessionSweepJob(t *testing.T) {
	s := &fakeSweeper{swept: 2}
	NewSessionSweepJob(s).Run()
	assert.Equal(t, 1, s.calls)
}

func TestPreviewCleanupJob(t *testing.T) {
	s := &fakeSweeper{purgeErr: errors.New("permission denied")}
	job := NewPreviewCleanupJob(s, time.Hour)

	assert.NotPanics(t, job.Run)
	assert.Equal(t, time.Hour, s.olderThan)
}

func TestPanicRecoveryWrapper(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wrapped := NewPanicRecoveryWrapper(logger)(cron.FuncJob(func() { panic("boom") }))

	assert.NotPanics(t, wrapped.Run)
	assert.Contains(t, buf.String(), "Job panicked")
	assert.Contains(t, buf.String(), "boom")
}

func TestLoggingWrapper_RunsJob(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := &fakeSweeper{}

	NewLoggingWrapper(logger)(NewSessionSweepJob(s)).Run()

	assert.Equal(t, 1, s.calls)
	assert.Contains(t, buf.String(), "job_name=SessionSweepJob")
	assert.Contains(t, buf.String(), "execution_id=")
}

func TestGetJobName(t *testing.T) {
	assert.Equal(t, "PreviewCleanupJob", getJobName(NewPreviewCleanupJob(&fakeSweeper{}, time.Minute)))
	assert.Equal(t, "cron.FuncJob", getJobName(cron.FuncJob(func() {})))
}

func TestScheduler_RegisterJobs(t *testing.T) {
	s := NewScheduler(&fakeSweeper{}, time.Hour)
	require.NoError(t, s.RegisterJobs())
	assert.Len(t, s.cron.Entries(), 2)
}
