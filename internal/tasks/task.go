package tasks

// Step is a single yield from a task.
type Step struct {
	// Wait is how many virtual seconds the scheduler should pause
	// before pulling again. Meaningful only when Done is false.
	Wait float64

	// Done marks the task finished. A done task must not be pulled
	// again.
	Done bool
}

// wait builds a pause step, clamping tiny float residue below zero.
func wait(seconds float64) Step {
	if seconds < 0 {
		seconds = 0
	}
	return Step{Wait: seconds}
}

var done = Step{Done: true}

// stepFunc performs one pull's hardware effects and returns the
// resulting step plus the continuation to run on the next pull.
type stepFunc func() (Step, stepFunc, error)

// Task is a lazy, finite, non-restartable sequence of steps.
// Lifecycle: created, any number of wait yields, a single done
// yield, then exhausted. Errors are fatal: a task that returned an
// error is exhausted too.
type Task struct {
	next stepFunc
}

func newTask(first stepFunc) *Task {
	return &Task{next: first}
}

// Pull performs the next slice of work. Hardware side effects happen
// before Pull returns, so the caller can rely on them being visible
// during the subsequent pause.
func (t *Task) Pull() (Step, error) {
	if t.next == nil {
		return Step{}, ErrTaskExhausted
	}

	step, next, err := t.next()
	if err != nil {
		t.next = nil
		return Step{}, err
	}

	if step.Done {
		t.next = nil
	} else {
		t.next = next
	}
	return step, nil
}
