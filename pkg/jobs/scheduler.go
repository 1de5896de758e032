package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tiffinhub/tiffinhub/pkg/metrics"
)

// Fixed schedules, server local time.
const (
	ScheduleReminders    = "0 9 * * *"
	ScheduleTrialExpiry  = "30 0 * * *"
	SchedulePhotoCleanup = "0 3 * * *"
)

// Job is one unit of scheduled work. Run processes a full batch and returns
// the first error worth surfacing; per-record failures are handled inside.
type Job interface {
	Name() string
	Run() error
}

// Scheduler runs registered jobs on their cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	byName map[string]Job
	logger *zap.Logger
}

// NewScheduler creates an empty Scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		byName: make(map[string]Job),
		logger: logger,
	}
}

// Register adds a job on the given cron spec.
func (s *Scheduler) Register(spec string, job Job) error {
	s.byName[job.Name()] = job
	_, err := s.cron.AddFunc(spec, func() {
		// Scheduled runs surface failures via logs and metrics only.
		_ = s.run(job)
	})
	return err
}

// Start begins the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling. Running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Names returns the registered job names.
func (s *Scheduler) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	return names
}

// RunOnce executes one registered job immediately, outside its schedule,
// and returns the job's failure so one-shot callers can exit non-zero.
func (s *Scheduler) RunOnce(name string) error {
	job, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("unknown job: %s", name)
	}
	return s.run(job)
}

func (s *Scheduler) run(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.JobRunsTotal.WithLabelValues(job.Name(), "panic").Inc()
			s.logger.Error("job panicked",
				zap.String("job", job.Name()),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()

	s.logger.Info("job starting", zap.String("job", job.Name()))
	if err := job.Run(); err != nil {
		metrics.JobRunsTotal.WithLabelValues(job.Name(), "error").Inc()
		s.logger.Error("job failed",
			zap.String("job", job.Name()),
			zap.Error(err),
		)
		return err
	}
	metrics.JobRunsTotal.WithLabelValues(job.Name(), "success").Inc()
	s.logger.Info("job finished", zap.String("job", job.Name()))
	return nil
}
