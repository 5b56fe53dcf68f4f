// Package scheduler runs the periodic autosave job that checkpoints
// every open scoring session.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/jackymlr/basketball/internal/scoring"
)

type Scheduler struct {
	s       gocron.Scheduler
	manager *scoring.Manager
	log     *logrus.Logger
}

func New(manager *scoring.Manager, interval time.Duration, log *logrus.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	sched := &Scheduler{
		s:       s,
		manager: manager,
		log:     log,
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sched.autosave),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create autosave job: %w", err)
	}
	return sched, nil
}

func (s *Scheduler) Start() {
	s.s.Start()
	s.log.Info("autosave scheduler started")
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) autosave() {
	s.log.Debug("running autosave")
	s.manager.SaveAll()
}
