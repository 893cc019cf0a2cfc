package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// BookingSweeper is the slice of the booking service the scheduler needs.
type BookingSweeper interface {
	AutoReturnExpired(ctx context.Context) (int, error)
}

// AutoReturnJob returns expired bookings on a schedule. It owns its own
// transaction scope through the service; a failed run is logged and simply
// retried at the next tick.
type AutoReturnJob struct {
	sweeper BookingSweeper
	timeout time.Duration
}

func NewAutoReturnJob(sweeper BookingSweeper) *AutoReturnJob {
	return &AutoReturnJob{sweeper: sweeper, timeout: 5 * time.Minute}
}

func (j *AutoReturnJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	logrus.Debug("checking for expired bookings")

	count, err := j.sweeper.AutoReturnExpired(ctx)
	if err != nil {
		logrus.WithError(err).Error("auto-return sweep failed, deferring to next run")
		return
	}
	if count > 0 {
		logrus.WithField("bookings", count).Info("auto-returned expired bookings")
	}
}

// Start schedules the job with the given cron spec in the given timezone and
// returns the running scheduler so the caller can Stop it on shutdown.
func Start(spec string, loc *time.Location, job cron.Job) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
