package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubSweeper struct {
	calls int
	count int
	err   error

	gotDeadline bool
}

func (s *stubSweeper) AutoReturnExpired(ctx context.Context) (int, error) {
	s.calls++
	_, s.gotDeadline = ctx.Deadline()
	return s.count, s.err
}

func TestAutoReturnJob_Run(t *testing.T) {
	sweeper := &stubSweeper{count: 3}

	NewAutoReturnJob(sweeper).Run()

	assert.Equal(t, 1, sweeper.calls)
	assert.True(t, sweeper.gotDeadline, "sweep must run under a deadline")
}

func TestAutoReturnJob_SweepErrorDoesNotPanic(t *testing.T) {
	sweeper := &stubSweeper{err: errors.New("db down")}

	NewAutoReturnJob(sweeper).Run()

	assert.Equal(t, 1, sweeper.calls)
}

func TestStart_InvalidSpec(t *testing.T) {
	_, err := Start("not a cron spec", time.UTC, NewAutoReturnJob(&stubSweeper{}))
	assert.Error(t, err)
}

func TestStart_ValidSpec(t *testing.T) {
	c, err := Start("1 0 * * *", time.UTC, NewAutoReturnJob(&stubSweeper{}))
	assert.NoError(t, err)
	c.Stop()
}
