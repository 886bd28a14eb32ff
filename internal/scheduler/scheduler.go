package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/service/reporting"
)

const publishTimeout = 2 * time.Minute

// Scheduler publishes reports on a cron schedule.
type Scheduler struct {
	cron         *cron.Cron
	schedule     string
	location     *time.Location
	reportingSvc *reporting.Service
	publishers   []reporting.Publisher
	mu           sync.Locker
	now          func() time.Time
	logger       *zap.Logger
}

// NewScheduler creates a scheduler firing on schedule in loc. mu guards the
// stores the reporting service reads.
func NewScheduler(schedule string, loc *time.Location, reportingSvc *reporting.Service, mu sync.Locker, logger *zap.Logger, publishers ...reporting.Publisher) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		schedule:     schedule,
		location:     loc,
		reportingSvc: reportingSvc,
		publishers:   publishers,
		mu:           mu,
		now:          time.Now,
		logger:       logger,
	}
}

// Start registers the report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.publishReport); err != nil {
		return fmt.Errorf("schedule report %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.location.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) publishReport() {
	s.logger.Info("generating scheduled report")
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	// Only the snapshot needs the lock; sinks may be slow.
	s.mu.Lock()
	report := s.reportingSvc.Build(s.now().In(s.location))
	s.mu.Unlock()

	if err := s.reportingSvc.Deliver(ctx, report, s.publishers...); err != nil {
		s.logger.Error("scheduled report incomplete", zap.Error(err))
		return
	}
	s.logger.Info("scheduled report published", zap.Int("sinks", len(s.publishers)))
}
