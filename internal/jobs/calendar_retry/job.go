package calendar_retry

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Retrier повторяет создание событий календаря
type Retrier interface {
	RetryFailedCalendarEvents(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Job периодический повтор неудавшихся событий Google Calendar
type Job struct {
	cron    *cron.Cron
	retrier Retrier
	logger  Logger
	timeout time.Duration
}

// New регистрирует задачу по cron-расписанию (5 полей, например "*/10 * * * *")
// Запуск, пересекающийся с предыдущим, пропускается
func New(spec string, retrier Retrier, logger Logger, timeout time.Duration) (*Job, error) {
	cl := cronLogger{log: logger}
	j := &Job{
		cron:    cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)), cron.WithLogger(cl)),
		retrier: retrier,
		logger:  logger,
		timeout: timeout,
	}

	if _, err := j.cron.AddFunc(spec, j.Run); err != nil {
		return nil, fmt.Errorf("invalid calendar retry schedule %q: %w", spec, err)
	}
	return j, nil
}

// Start запускает планировщик в фоне
func (j *Job) Start() {
	j.logger.Info("CalendarRetry: scheduler started")
	j.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения текущего запуска
func (j *Job) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		j.logger.Error("CalendarRetry: stop timed out: %v", ctx.Err())
	}
}

// Run один проход повтора
func (j *Job) Run() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	created, err := j.retrier.RetryFailedCalendarEvents(ctx)
	if err != nil {
		j.logger.Error("CalendarRetry: run failed: %v", err)
		return
	}
	if created > 0 {
		j.logger.Info("CalendarRetry: %d calendar events created", created)
	}
}

// cronLogger переводит key-value логи cron в printf-логгер сервиса
type cronLogger struct {
	log Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
