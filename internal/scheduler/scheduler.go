package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Job is the unit of work the scheduler runs on every tick.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a plain function to Job.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// SchedulerService exposes a small control surface for the scheduler.
// Start/Stop are synchronous controls, and IsRunning reports
// whether the scheduler is currently accepting ticks.
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// DefaultInterval is used when no custom interval is provided.
const DefaultInterval = 15 * time.Second

// DefaultJobTimeout bounds a single run before its context is cancelled.
const DefaultJobTimeout = 5 * time.Second

// controlTimeout is how long we wait for the control loop to
// accept a Start/Stop command and acknowledge it.
const controlTimeout = 2 * time.Second

var (
	errNotResponding = errors.New("scheduler: control loop not responding")
	errAckTimeout    = errors.New("scheduler: acknowledgement timeout")
)

type controlOp int

const (
	opStart controlOp = iota
	opStop
	opStatus
)

// controlMsg is sent over the ctrl channel to drive the scheduler's state.
type controlMsg struct {
	op   controlOp
	resp chan bool
}

// schedulerService owns the internal state and runs the control loop.
// All mutable state lives in the loop goroutine, so we don't need locks.
type schedulerService struct {
	name       string
	job        Job
	interval   time.Duration
	jobTimeout time.Duration
	ctrl       chan controlMsg
	log        *zap.Logger
}

// NewSchedulerService creates a scheduler that runs job every interval.
// Non-positive durations fall back to the defaults.
func NewSchedulerService(
	name string,
	job Job,
	interval time.Duration,
	jobTimeout time.Duration,
	log *zap.Logger,
) SchedulerService {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &schedulerService{
		name:       name,
		job:        job,
		interval:   interval,
		jobTimeout: jobTimeout,
		ctrl:       make(chan controlMsg),
		log:        log.Named("scheduler").With(zap.String("job", name)),
	}

	// The control loop lives for the lifetime of the process.
	go s.loop()

	return s
}

// Start tells the scheduler to begin processing ticks.
// It blocks until the internal loop has acknowledged the state change.
func (s *schedulerService) Start() error {
	return s.send(opStart)
}

// Stop tells the scheduler to stop accepting new ticks. A run in
// progress is allowed to finish (or time out) before Stop is
// acknowledged; Stop gives up with errAckTimeout after controlTimeout.
func (s *schedulerService) Stop() error {
	return s.send(opStop)
}

func (s *schedulerService) send(op controlOp) error {
	// Buffered so a late acknowledgement never blocks the loop.
	resp := make(chan bool, 1)

	select {
	case s.ctrl <- controlMsg{op: op, resp: resp}:
	case <-time.After(controlTimeout):
		return errNotResponding
	}

	select {
	case <-resp:
		return nil
	case <-time.After(controlTimeout):
		return errAckTimeout
	}
}

// IsRunning reports whether new ticks will be processed. It does not
// mean a job is executing right now.
func (s *schedulerService) IsRunning() bool {
	resp := make(chan bool, 1)
	s.ctrl <- controlMsg{op: opStatus, resp: resp}
	return <-resp
}

func (s *schedulerService) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	running := false

	// done is non-nil while a run is in flight and receives its result.
	var done chan error

	// pendingStops are answered once the current run finishes.
	var pendingStops []chan bool

	for {
		select {
		case msg := <-s.ctrl:
			switch msg.op {
			case opStart:
				if !running {
					s.log.Info("started",
						zap.Duration("interval", s.interval),
						zap.Duration("job_timeout", s.jobTimeout),
					)
				}
				running = true
				msg.resp <- true

			case opStop:
				if !running && done == nil {
					s.log.Debug("stop requested, already idle")
					msg.resp <- true
					continue
				}

				running = false

				if done != nil {
					s.log.Info("stop requested, waiting for current run")
					pendingStops = append(pendingStops, msg.resp)
				} else {
					s.log.Info("stopped")
					msg.resp <- true
				}

			case opStatus:
				msg.resp <- running
			}

		case <-ticker.C:
			if !running || done != nil {
				continue
			}

			done = make(chan error, 1)
			go s.run(done)

		case err := <-done:
			done = nil

			if err != nil {
				s.log.Warn("job failed", zap.Error(err))
			} else {
				s.log.Debug("job completed")
			}

			if len(pendingStops) > 0 {
				for _, resp := range pendingStops {
					resp <- true
				}
				pendingStops = nil
				s.log.Info("stopped")
			}
		}
	}
}

// run executes one job under the job timeout and reports on done.
func (s *schedulerService) run(done chan<- error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	done <- s.job.Run(ctx)
}
