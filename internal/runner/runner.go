// Package runner executes recipe steps one at a time. It implements
// the scheduler side of the task contract: pull the task, sleep the
// yielded wait in virtual time, pull again, and stop at done. Exactly
// one step runs at a time; a second start while one is active is
// rejected rather than queued.
package runner

import (
	"context"
	"errors"
	"sync"

	"github.com/opencell/reactor-core/internal/runlog"
	"github.com/opencell/reactor-core/internal/tasks"
)

var (
	// ErrStepActive is returned by Start while another step is still
	// running.
	ErrStepActive = errors.New("runner: a step is already running")

	// ErrNoActiveStep is returned by Stop when nothing is running.
	ErrNoActiveStep = errors.New("runner: no step is running")
)

// Hardware is the facade surface the runner drives: everything tasks
// need plus the speed-scaled sleep and the global shutdown used on
// stop and failure. reactor.Core satisfies it.
type Hardware interface {
	tasks.Facade
	Sleep(seconds float64)
	TurnOffEverything() error
}

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// Notifier receives step lifecycle events, typically for publishing
// to MQTT and the WebSocket hub.
type Notifier interface {
	StepStarted(run runlog.StepRun)
	StepFinished(run runlog.StepRun)
}

type noopNotifier struct{}

func (noopNotifier) StepStarted(runlog.StepRun)  {}
func (noopNotifier) StepFinished(runlog.StepRun) {}

// Status is a snapshot of the runner's current or last step.
type Status struct {
	RunID  string `json:"run_id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Runner drives one recipe step at a time against the hardware.
type Runner struct {
	repo     runlog.Repository
	notifier Notifier
	logger   Logger

	mu      sync.Mutex
	active  bool
	last    Status
	stop    chan struct{}
	stopped chan struct{}
}

// New creates a runner. notifier may be nil.
func New(repo runlog.Repository, notifier Notifier, logger Logger) *Runner {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Runner{repo: repo, notifier: notifier, logger: logger}
}

// Start begins executing a step and returns its run id. The step
// runs on its own goroutine; Start fails with ErrStepActive while a
// previous step is still running, and with tasks.ErrUnknownKind for
// an unrecognized kind.
func (r *Runner) Start(ctx context.Context, hw Hardware, kind string, params tasks.Params) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return "", ErrStepActive
	}

	run := runlog.StepRun{
		Kind:        kind,
		Params:      params,
		UptimeStart: hw.Uptime(),
	}
	if err := r.repo.Create(ctx, &run); err != nil {
		return "", err
	}

	task, err := tasks.New(kind, &recordingFacade{
		Facade: hw,
		repo:   r.repo,
		runID:  run.ID,
	}, params)
	if err != nil {
		if ferr := r.repo.Finish(ctx, run.ID, runlog.StatusFailed, err.Error(), hw.Uptime()); ferr != nil {
			r.logger.Error("recording rejected step", "run_id", run.ID, "error", ferr)
		}
		return "", err
	}

	r.active = true
	r.last = Status{RunID: run.ID, Kind: kind, Status: runlog.StatusRunning}
	r.stop = make(chan struct{})
	r.stopped = make(chan struct{})

	r.notifier.StepStarted(run)
	r.logger.Info("step started", "run_id", run.ID, "kind", kind)

	go r.loop(hw, task, run, r.stop, r.stopped)

	return run.ID, nil
}

// loop is the scheduler obligation: pull, sleep the wait, pull again,
// never pull past done. Stop requests are honored only at wait
// boundaries, never mid-action.
func (r *Runner) loop(hw Hardware, task *tasks.Task, run runlog.StepRun, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	for {
		step, err := task.Pull()
		if err != nil {
			r.halt(hw, run, runlog.StatusFailed, err)
			return
		}
		if step.Done {
			r.finish(hw, run, runlog.StatusCompleted, "")
			return
		}

		hw.Sleep(step.Wait)

		select {
		case <-stop:
			r.halt(hw, run, runlog.StatusStopped, nil)
			return
		default:
		}
	}
}

// halt turns all actuators off, then records the terminal state. A
// failed or stopped step must never leave hardware energized.
func (r *Runner) halt(hw Hardware, run runlog.StepRun, status string, cause error) {
	if err := hw.TurnOffEverything(); err != nil {
		r.logger.Error("shutdown after halt failed", "run_id", run.ID, "error", err)
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
		r.logger.Error("step failed", "run_id", run.ID, "kind", run.Kind, "error", cause)
	}
	r.finish(hw, run, status, msg)
}

func (r *Runner) finish(hw Hardware, run runlog.StepRun, status, errMsg string) {
	if err := r.repo.Finish(context.Background(), run.ID, status, errMsg, hw.Uptime()); err != nil {
		r.logger.Error("recording step finish", "run_id", run.ID, "error", err)
	}

	r.mu.Lock()
	r.active = false
	r.last.Status = status
	r.last.Error = errMsg
	run.Status = status
	run.Error = errMsg
	r.mu.Unlock()

	r.notifier.StepFinished(run)
	r.logger.Info("step finished", "run_id", run.ID, "kind", run.Kind, "status", status)
}

// Stop requests the active step to stop at its next wait boundary
// and waits for it to wind down. All actuators are off when Stop
// returns.
func (r *Runner) Stop() error {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return ErrNoActiveStep
	}
	stop, stopped := r.stop, r.stopped
	r.mu.Unlock()

	select {
	case <-stop:
	default:
		close(stop)
	}
	<-stopped
	return nil
}

// Wait blocks until the current step finishes. Used by tests and
// callers that need completion rather than fire-and-forget.
func (r *Runner) Wait() {
	r.mu.Lock()
	stopped := r.stopped
	active := r.active
	r.mu.Unlock()
	if active && stopped != nil {
		<-stopped
	}
}

// Current reports the runner's current or most recent step. The
// boolean is true while a step is actively running.
func (r *Runner) Current() (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.active
}

// recordingFacade passes every call through to the rig, additionally
// persisting dispense events so delivered volume can be audited per
// run.
type recordingFacade struct {
	tasks.Facade
	repo  runlog.Repository
	runID string
}

func (f *recordingFacade) Dispense(pump string, volume, duration float64) (float64, error) {
	measured, err := f.Facade.Dispense(pump, volume, duration)
	if err != nil {
		return measured, err
	}

	event := runlog.DispenseEvent{RunID: f.runID, Pump: pump, VolumeML: volume}
	if duration > 0 {
		d := duration
		event.DurationS = &d
	}
	// Best effort: a full history table must not abort a dispense
	// that already happened.
	_ = f.repo.RecordDispense(context.Background(), &event)

	return measured, nil
}
