// Package maintenance runs periodic housekeeping jobs.
package maintenance

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSweepSpec runs the limiter sweep every five minutes.
const DefaultSweepSpec = "*/5 * * * *"

// Sweeper drops expired state and reports how much it removed.
type Sweeper interface {
	Sweep() int
}

type Scheduler struct {
	c       *cron.Cron
	log     *zap.Logger
	spec    string
	sweeper Sweeper
}

func NewScheduler(log *zap.Logger, spec string, sweeper Sweeper) *Scheduler {
	if spec == "" {
		spec = DefaultSweepSpec
	}

	c := cron.New(cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	return &Scheduler{
		c:       c,
		log:     log,
		spec:    spec,
		sweeper: sweeper,
	}
}

// Start registers the jobs and runs them until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.c.AddFunc(s.spec, s.sweep); err != nil {
		return err
	}

	s.c.Start()
	s.log.Info("Maintenance scheduler started", zap.String("spec", s.spec))

	go func() {
		<-ctx.Done()
		stopCtx := s.c.Stop()
		<-stopCtx.Done()
		s.log.Info("Maintenance scheduler stopped")
	}()
	return nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.c.Entries())
}

func (s *Scheduler) sweep() {
	removed := s.sweeper.Sweep()
	s.log.Info("Expired rate limit windows removed", zap.Int("count", removed))
}
