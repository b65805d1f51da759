// Package scheduler promotes due scheduled posts in the background. The
// public queries only return posts whose stored status is published, so a
// scheduled post stays hidden until the sweep flips it; a late tick delays
// visibility by at most one sweep interval.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Promoter is the slice of the post service the scheduler needs.
type Promoter interface {
	PromoteDueScheduledPosts(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic promotion sweep.
type Scheduler struct {
	cron     *cron.Cron
	promoter Promoter
}

// New creates a scheduler around the given promoter.
func New(promoter Promoter) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		promoter: promoter,
	}
}

// Start registers the sweep and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every 1m", s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	logrus.Info("scheduled-post promotion sweep started")
	return nil
}

// Stop halts the cron loop, waiting for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	promoted, err := s.promoter.PromoteDueScheduledPosts(ctx)
	if err != nil {
		logrus.WithError(err).Error("scheduled-post promotion sweep failed")
		return
	}
	if promoted > 0 {
		logrus.WithField("count", promoted).Info("promoted scheduled posts")
	}
}
