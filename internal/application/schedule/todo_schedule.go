package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"todo-api/internal/domain/usecase/todo"
	"todo-api/pkg/log"
	"todo-api/pkg/redis"
)

// TodoSchedulerConfig holds configuration for the overdue report scheduler
type TodoSchedulerConfig struct {
	CronExpression  string
	LockTTL         time.Duration
	RefreshInterval time.Duration
}

// TodoScheduler periodically reports overdue todos. A Redis distributed lock
// keeps the report on a single instance; the task never mutates todos.
type TodoScheduler struct {
	cron        *cron.Cron
	useCase     todo.UseCase
	redisClient *redis.Client
	config      *TodoSchedulerConfig
}

// NewTodoScheduler creates a new overdue report scheduler with distributed locking support
func NewTodoScheduler(useCase todo.UseCase, redisClient *redis.Client, cronExpression string, lockTTL int, refreshInterval int) *TodoScheduler {
	return &TodoScheduler{
		cron:        cron.New(),
		useCase:     useCase,
		redisClient: redisClient,
		config: &TodoSchedulerConfig{
			CronExpression:  cronExpression,
			LockTTL:         time.Duration(lockTTL) * time.Second,
			RefreshInterval: time.Duration(refreshInterval) * time.Second,
		},
	}
}

// InitTodoScheduleTasks initializes the overdue report task under a distributed lock
func (s *TodoScheduler) InitTodoScheduleTasks(ctx context.Context) {
	go func() {
		lockOpts := redis.NewLockOptions().
			WithTTL(s.getLockTTL()).
			WithRefreshInterval(s.getRefreshInterval()).
			WithLockNamespace("todo_schedules")
		lock := redis.NewLock(s.redisClient, "overdue_report_scheduler", lockOpts)

		err := lock.Lock(ctx)
		if err != nil {
			log.Errorf("Failed to acquire distributed lock, overdue report scheduler will not be initialized: %v", err)
			return
		}

		// Keep the lock alive for as long as this instance runs the report
		refreshErrChan := lock.AutoRefresh(ctx)

		cronExpression := s.config.CronExpression

		_, err = s.cron.AddFunc(cronExpression, s.ExecuteScheduledTask)
		if err != nil {
			log.Errorf("Failed to initialize overdue report scheduler, cron will not be started: %v", err)
			return
		}

		s.cron.Start()
		log.Infof("Overdue report scheduler started successfully with cron expression: %s", cronExpression)

		err = <-refreshErrChan

		if s.cron != nil {
			cronCtx := s.cron.Stop()
			<-cronCtx.Done()
		}

		if err != nil {
			log.Errorf("Overdue report scheduler stopped due to auto-refresh failure: %v", err)
		} else {
			log.Info("Overdue report scheduler stopped gracefully")
		}
	}()
}

// ExecuteScheduledTask counts the todos past their due date and publishes a
// batch of reminder events for them
func (s *TodoScheduler) ExecuteScheduledTask() {
	requestID := uuid.New().String()
	now := time.Now().UTC()

	log.Info("Overdue report task triggered", zap.String("request_id", requestID))

	overdue, err := s.useCase.CountOverdue(now)
	if err != nil {
		log.Error("Failed to count overdue todos", zap.String("request_id", requestID), zap.Error(err))
		return
	}

	published, err := s.useCase.PublishOverdueReminders(now)
	if err != nil {
		log.Error("Failed to publish overdue reminder events", zap.String("request_id", requestID), zap.Error(err))
	}

	log.Info("Overdue report completed",
		zap.String("request_id", requestID),
		zap.Int64("overdue_todos", overdue),
		zap.Int("reminder_events", published),
	)
}

// Stop gracefully stops the scheduler
func (s *TodoScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}

func (s *TodoScheduler) getLockTTL() time.Duration {
	if s.config.LockTTL > 0 {
		return s.config.LockTTL
	}
	return 10 * time.Minute
}

func (s *TodoScheduler) getRefreshInterval() time.Duration {
	if s.config.RefreshInterval > 0 {
		return s.config.RefreshInterval
	}
	return 1 * time.Minute
}
