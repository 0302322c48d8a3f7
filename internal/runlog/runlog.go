// Package runlog provides access to the step_runs and dispense_events
// tables for recording and querying recipe step execution history.
package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opencell/reactor-core/internal/tasks"
)

// Run statuses. A run starts as running and ends in exactly one of
// the terminal states.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusStopped   = "stopped"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("runlog: run not found")

// StepRun is one recipe step execution.
type StepRun struct {
	ID          string       `json:"id"`
	Kind        string       `json:"kind"`
	Params      tasks.Params `json:"params"`
	Status      string       `json:"status"`
	Error       string       `json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  *time.Time   `json:"finished_at,omitempty"`
	UptimeStart float64      `json:"uptime_start"`
	UptimeEnd   *float64     `json:"uptime_end,omitempty"`
}

// DispenseEvent is one reagent dispense issued during a run.
type DispenseEvent struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Pump      string    `json:"pump"`
	VolumeML  float64   `json:"volume_ml"`
	DurationS *float64  `json:"duration_s,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter controls which runs List returns.
type Filter struct {
	Status string // optional: filter by run status
	Limit  int    // default 50, max 200
	Offset int    // pagination offset
}

// ListResult contains paginated run history.
type ListResult struct {
	Runs   []StepRun `json:"runs"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// Repository defines the interface for run history operations.
type Repository interface {
	Create(ctx context.Context, run *StepRun) error
	Finish(ctx context.Context, id, status, errMsg string, uptimeEnd float64) error
	RecordDispense(ctx context.Context, event *DispenseEvent) error
	Get(ctx context.Context, id string) (*StepRun, error)
	List(ctx context.Context, filter Filter) (*ListResult, error)
	Dispenses(ctx context.Context, runID string) ([]DispenseEvent, error)
}

// SQLiteRepository stores run history in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new run history repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new run in the running state. The ID and StartedAt
// are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, run *StepRun) error {
	if run.ID == "" {
		run.ID = "run-" + uuid.NewString()[:8]
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = StatusRunning
	}

	params, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("marshalling run params: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO step_runs (id, kind, params, status, started_at, uptime_start)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, string(params), run.Status,
		run.StartedAt.Format(time.RFC3339), run.UptimeStart,
	)
	if err != nil {
		return fmt.Errorf("inserting step run: %w", err)
	}
	return nil
}

// Finish moves a run to a terminal state. errMsg is stored only for
// failed runs.
func (r *SQLiteRepository) Finish(ctx context.Context, id, status, errMsg string, uptimeEnd float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE step_runs
		 SET status = ?, error = ?, finished_at = ?, uptime_end = ?
		 WHERE id = ?`,
		status, nullableString(errMsg),
		time.Now().UTC().Format(time.RFC3339), uptimeEnd, id,
	)
	if err != nil {
		return fmt.Errorf("finishing step run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing step run: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordDispense appends one dispense event to a run's audit trail.
func (r *SQLiteRepository) RecordDispense(ctx context.Context, event *DispenseEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	var duration any
	if event.DurationS != nil {
		duration = *event.DurationS
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO dispense_events (run_id, pump, volume_ml, duration_s, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		event.RunID, event.Pump, event.VolumeML, duration,
		event.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting dispense event: %w", err)
	}
	if event.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("inserting dispense event: %w", err)
	}
	return nil
}

// Get returns a single run by id.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*StepRun, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kind, params, status, error, started_at, finished_at, uptime_start, uptime_end
		 FROM step_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying step run: %w", err)
	}
	return run, nil
}

// List returns runs matching the filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	where := ""
	var args []any
	if filter.Status != "" {
		where = " WHERE status = ?"
		args = append(args, filter.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM step_runs"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting step runs: %w", err)
	}

	query := `SELECT id, kind, params, status, error, started_at, finished_at, uptime_start, uptime_end
		 FROM step_runs` + where + ` ORDER BY started_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("querying step runs: %w", err)
	}
	defer rows.Close()

	result := &ListResult{
		Runs:   []StepRun{},
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning step run: %w", err)
		}
		result.Runs = append(result.Runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating step runs: %w", err)
	}
	return result, nil
}

// Dispenses returns a run's dispense events in insertion order.
func (r *SQLiteRepository) Dispenses(ctx context.Context, runID string) ([]DispenseEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, run_id, pump, volume_ml, duration_s, created_at
		 FROM dispense_events WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying dispense events: %w", err)
	}
	defer rows.Close()

	events := []DispenseEvent{}
	for rows.Next() {
		var (
			e         DispenseEvent
			duration  sql.NullFloat64
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Pump, &e.VolumeML, &duration, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning dispense event: %w", err)
		}
		if duration.Valid {
			d := duration.Float64
			e.DurationS = &d
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing dispense timestamp: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dispense events: %w", err)
	}
	return events, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*StepRun, error) {
	var (
		run        StepRun
		params     string
		errMsg     sql.NullString
		startedAt  string
		finishedAt sql.NullString
		uptimeEnd  sql.NullFloat64
	)
	if err := row.Scan(&run.ID, &run.Kind, &params, &run.Status, &errMsg,
		&startedAt, &finishedAt, &run.UptimeStart, &uptimeEnd); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
		return nil, fmt.Errorf("unmarshalling run params: %w", err)
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}

	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		run.FinishedAt = &t
	}
	if uptimeEnd.Valid {
		v := uptimeEnd.Float64
		run.UptimeEnd = &v
	}
	return &run, nil
}

// nullableString returns nil for empty strings, for nullable TEXT
// columns.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
