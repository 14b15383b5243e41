package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/moradafish/dashboard/internal/config"
	"github.com/moradafish/dashboard/internal/domain/models"
)

type recordingPublisher struct{ months []models.Month }

func (r *recordingPublisher) PublishMonthlyReport(_ context.Context, m models.Month) (models.MonthlyReport, error) {
	r.months = append(r.months, m)
	return models.MonthlyReport{Month: m.String()}, nil
}

func TestReportMonth(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 6 1 * *", Timezone: "America/Sao_Paulo"}, &recordingPublisher{}, nil)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC), "2025-08"},
		{time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), "2024-12"},
		// 02:00 UTC on Sept 1st is still August 31st in São Paulo.
		{time.Date(2025, 9, 1, 2, 0, 0, 0, time.UTC), "2025-07"},
	}
	for _, tt := range tests {
		if got := s.ReportMonth(tt.now).String(); got != tt.want {
			t.Errorf("ReportMonth(%s) = %s, want %s", tt.now, got, tt.want)
		}
	}
}

func TestSendMonthlyReport(t *testing.T) {
	pub := &recordingPublisher{}
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 6 1 * *", Timezone: "UTC"}, pub, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.Date(2025, 9, 1, 6, 0, 0, 0, time.UTC) }

	s.sendMonthlyReport()
	if len(pub.months) != 1 || pub.months[0].String() != "2025-08" {
		t.Fatalf("published = %v", pub.months)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "every month", Timezone: "UTC"}, &recordingPublisher{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected an error for an invalid schedule")
	}
}

func TestNewSchedulerRejectsBadTimezone(t *testing.T) {
	if _, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 6 1 * *", Timezone: "Mars/Olympus"}, nil, nil); err == nil {
		t.Fatal("expected an error for an unknown timezone")
	}
}
