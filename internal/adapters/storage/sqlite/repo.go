package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanschultz/quadro/internal/app"
	"github.com/evanschultz/quadro/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// fileDSNParams make writers take the lock at BEGIN and wait for it instead of failing with SQLITE_BUSY.
const fileDSNParams = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_txlock=immediate"

// taskSequenceName keys the task id counter row.
const taskSequenceName = "tasks"

// Repository stores the board in one sqlite database. It implements app.Repository,
// app.IDSequencer, and app.ChangeFeed.
type Repository struct {
	db *sql.DB
}

// Open opens or creates the database file at path. One pooled connection serializes
// reads against in-flight transactions; the busy timeout covers other processes.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path+fileDSNParams)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens a private in-memory database. A single connection keeps it alive.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id INTEGER NOT NULL UNIQUE CHECK (id > 0),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			assignee_name TEXT NOT NULL DEFAULT '',
			assignee_initials TEXT NOT NULL DEFAULT '',
			due_date TEXT,
			comments INTEGER NOT NULL DEFAULT 0 CHECK (comments >= 0),
			subtasks_total INTEGER NOT NULL DEFAULT 0 CHECK (subtasks_total >= 0),
			subtasks_completed INTEGER NOT NULL DEFAULT 0 CHECK (subtasks_completed >= 0 AND subtasks_completed <= subtasks_total),
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS id_sequences (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS change_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL,
			operation TEXT NOT NULL,
			from_status TEXT NOT NULL DEFAULT '',
			to_status TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status_seq ON tasks(status, seq);`,
		`CREATE INDEX IF NOT EXISTS idx_change_events_created_at ON change_events(created_at DESC, id DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO id_sequences(name, value)
		VALUES (?, (SELECT COALESCE(MAX(id), 0) FROM tasks))
		ON CONFLICT(name) DO NOTHING
	`, taskSequenceName); err != nil {
		return fmt.Errorf("migrate sqlite seed id sequence: %w", err)
	}
	return nil
}

// ListTasks returns tasks in insertion order.
func (r *Repository) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, status, priority, assignee_name, assignee_initials, due_date, comments, subtasks_total, subtasks_completed
		FROM tasks
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// CreateTask appends one task, advances the id sequence past its id, and records a create event.
func (r *Repository) CreateTask(ctx context.Context, t domain.Task, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var assigneeName, assigneeInitials string
	if t.Assignee != nil {
		assigneeName, assigneeInitials = t.Assignee.Name, t.Assignee.Initials
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks(id, title, description, status, priority, assignee_name, assignee_initials, due_date, comments, subtasks_total, subtasks_completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		assigneeName,
		assigneeInitials,
		nullableDate(t.DueDate),
		t.Comments,
		t.Subtasks.Total,
		t.Subtasks.Completed,
		ts(at),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %d", app.ErrDuplicateID, t.ID)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE id_sequences SET value = MAX(value, ?) WHERE name = ?`, t.ID, taskSequenceName); err != nil {
		return fmt.Errorf("advance id sequence: %w", err)
	}
	if err := insertTaskChangeEvent(ctx, tx, domain.ChangeEvent{
		TaskID:     t.ID,
		Operation:  domain.ChangeOperationCreate,
		ToStatus:   t.Status,
		OccurredAt: at,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateTaskStatus sets the status of one task. Unknown ids return app.ErrNotFound;
// a same-status update writes nothing.
func (r *Repository) UpdateTaskStatus(ctx context.Context, id int64, status domain.Status, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var prevRaw string
	if err := tx.QueryRowContext(ctx, `SELECT status FROM tasks WHERE id = ?`, id).Scan(&prevRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return app.ErrNotFound
		}
		return err
	}
	prev := domain.Status(prevRaw)
	if prev == status {
		return nil
	}

	res, err := tx.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if err := translateNoRows(res); err != nil {
		return err
	}
	if err := insertTaskChangeEvent(ctx, tx, domain.ChangeEvent{
		TaskID:     id,
		Operation:  domain.ChangeOperationMove,
		FromStatus: prev,
		ToStatus:   status,
		OccurredAt: at,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// NextTaskID reserves the next id from the persistent counter.
func (r *Repository) NextTaskID(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE id_sequences
		SET value = MAX(value, (SELECT COALESCE(MAX(id), 0) FROM tasks)) + 1
		WHERE name = ?
	`, taskSequenceName)
	if err != nil {
		return 0, err
	}
	if err := translateNoRows(res); err != nil {
		return 0, fmt.Errorf("id sequence %q missing: %w", taskSequenceName, err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT value FROM id_sequences WHERE name = ?`, taskSequenceName).Scan(&id); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListChangeEvents returns the newest ledger entries first.
func (r *Repository) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, operation, from_status, to_status, created_at
		FROM change_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		var (
			event      domain.ChangeEvent
			opRaw      string
			fromRaw    string
			toRaw      string
			createdRaw string
		)
		if err := rows.Scan(&event.ID, &event.TaskID, &opRaw, &fromRaw, &toRaw, &createdRaw); err != nil {
			return nil, err
		}
		event.Operation = domain.ChangeOperation(opRaw)
		event.FromStatus = domain.Status(fromRaw)
		event.ToStatus = domain.Status(toRaw)
		event.OccurredAt = parseTS(createdRaw)
		out = append(out, event)
	}
	return out, rows.Err()
}

// execerContext represents a write-only DB contract used by DB and Tx implementations.
type execerContext interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

// insertTaskChangeEvent inserts a change-event ledger record.
func insertTaskChangeEvent(ctx context.Context, execer execerContext, event domain.ChangeEvent) error {
	if !event.Operation.Valid() {
		return domain.ErrInvalidOperation
	}
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	_, err := execer.ExecContext(ctx, `
		INSERT INTO change_events(task_id, operation, from_status, to_status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		event.TaskID,
		string(event.Operation),
		string(event.FromStatus),
		string(event.ToStatus),
		ts(occurred),
	)
	if err != nil {
		return fmt.Errorf("insert change event: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanTask handles scan task.
func scanTask(s scanner) (domain.Task, error) {
	var (
		t                domain.Task
		statusRaw        string
		priorityRaw      string
		assigneeName     string
		assigneeInitials string
		dueRaw           sql.NullString
	)
	if err := s.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&statusRaw,
		&priorityRaw,
		&assigneeName,
		&assigneeInitials,
		&dueRaw,
		&t.Comments,
		&t.Subtasks.Total,
		&t.Subtasks.Completed,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, app.ErrNotFound
		}
		return domain.Task{}, err
	}
	t.Status = domain.Status(statusRaw)
	t.Priority = domain.Priority(priorityRaw)
	if assigneeName != "" {
		t.Assignee = &domain.Assignee{Name: assigneeName, Initials: assigneeInitials}
	}
	due, err := parseNullDate(dueRaw)
	if err != nil {
		return domain.Task{}, fmt.Errorf("decode tasks.due_date for %d: %w", t.ID, err)
	}
	t.DueDate = due
	return t, nil
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(domain.DueDateLayout)
}

func parseNullDate(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	return domain.ParseDueDate(v.String)
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
