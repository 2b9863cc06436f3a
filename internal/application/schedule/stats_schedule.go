package schedule

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"todo-api/internal/domain/usecase/todo"
	"todo-api/pkg/log"
)

// StatsScheduler logs a completion-stats snapshot on a cron expression.
type StatsScheduler struct {
	scheduler gocron.Scheduler
	useCase   todo.UseCase
	cronExpr  string
	running   bool
}

// NewStatsScheduler creates a new completion stats scheduler
func NewStatsScheduler(useCase todo.UseCase, cronExpr string) (*StatsScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create stats scheduler: %w", err)
	}

	return &StatsScheduler{
		scheduler: scheduler,
		useCase:   useCase,
		cronExpr:  cronExpr,
	}, nil
}

// Start schedules the stats job and starts the scheduler in a non-blocking way
func (s *StatsScheduler) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("stats scheduler is already running")
	}

	_, err := s.scheduler.NewJob(
		gocron.CronJob(s.cronExpr, false),
		gocron.NewTask(func(ctx context.Context) {
			s.reportStats()
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule completion stats job: %w", err)
	}

	s.scheduler.Start()
	s.running = true
	log.Infof("Completion stats scheduler started with cron expression: %s", s.cronExpr)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully shuts the scheduler down
func (s *StatsScheduler) Stop() {
	if !s.running {
		return
	}
	if err := s.scheduler.Shutdown(); err != nil {
		log.Errorf("Failed to shut down stats scheduler: %v", err)
	}
	s.running = false
}

func (s *StatsScheduler) reportStats() {
	stats, err := s.useCase.CompletionStats()
	if err != nil {
		log.Error("Failed to collect completion stats", zap.Error(err))
		return
	}

	log.Info("Completion stats snapshot",
		zap.Int64("total", stats.Total),
		zap.Int64("completed", stats.Completed),
		zap.Int64("open", stats.Open),
		zap.Int64("overdue", stats.Overdue),
	)
}
