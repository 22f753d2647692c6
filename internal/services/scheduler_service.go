package services

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/equipehub/team-dashboard-api/internal/logging"
)

// SweepScheduler runs the regeneration sweep once at startup and then every
// day at local midnight. Stop cancels the pending schedule; no timers leak
// across restarts of the owning view/server.
type SweepScheduler struct {
	cron    *cron.Cron
	regen   *RegenerationService
	started bool
}

func NewSweepScheduler(regen *RegenerationService, loc *time.Location) *SweepScheduler {
	return &SweepScheduler{
		cron:  cron.New(cron.WithLocation(loc)),
		regen: regen,
	}
}

// Start runs one immediate sweep and arms the daily midnight schedule.
func (s *SweepScheduler) Start() error {
	if s.started {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 * * *", s.runSweep); err != nil {
		return err
	}

	go s.runSweep()

	s.cron.Start()
	s.started = true
	return nil
}

// Stop cancels the schedule and waits for a running sweep to finish.
func (s *SweepScheduler) Stop() {
	if !s.started {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.started = false
}

func (s *SweepScheduler) runSweep() {
	if err := s.regen.Sweep(); err != nil {
		logging.Logger.WithError(err).Error("regeneration sweep failed")
		return
	}
	logging.Logger.Info("regeneration sweep completed")
}

// NextMidnightDelay computes how long until the next local midnight.
func NextMidnightDelay(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	return next.Sub(now)
}
