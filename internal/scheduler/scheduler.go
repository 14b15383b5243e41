package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/moradafish/dashboard/internal/config"
	"github.com/moradafish/dashboard/internal/domain/models"
)

// ReportPublisher produces and delivers a monthly report.
type ReportPublisher interface {
	PublishMonthlyReport(ctx context.Context, month models.Month) (models.MonthlyReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	publisher ReportPublisher
	schedule  string
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, publisher ReportPublisher, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// Standard 5-field cron expressions (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:      c,
		publisher: publisher,
		schedule:  cfg.CronSchedule,
		location:  loc,
		now:       time.Now,
		logger:    logger.Named("scheduler"),
	}, nil
}

// Start registers the monthly report job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.location.String()))

	if _, err := s.cron.AddFunc(s.schedule, s.sendMonthlyReport); err != nil {
		return fmt.Errorf("schedule monthly report %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// ReportMonth is the month a job firing at now reports on: the previous calendar month.
func (s *Scheduler) ReportMonth(now time.Time) models.Month {
	return models.MonthOf(now.In(s.location)).Previous()
}

func (s *Scheduler) sendMonthlyReport() {
	month := s.ReportMonth(s.now())
	s.logger.Info("generating monthly report", zap.String("month", month.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.publisher.PublishMonthlyReport(ctx, month); err != nil {
		s.logger.Error("failed to publish monthly report", zap.String("month", month.String()), zap.Error(err))
		return
	}
	s.logger.Info("monthly report sent successfully", zap.String("month", month.String()))
}
