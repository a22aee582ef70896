package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/atelier/internal/db"
	"github.com/alexanderramin/atelier/internal/domain"
)

const taskColumns = `id, project_id, title, notes, category, status, priority,
		due_date, return_id, completed_at, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo over a *sql.DB or *sql.Tx.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Title,
		t.Notes,
		string(t.Category),
		string(t.Status),
		string(t.Priority),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableString(t.ReturnID),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundOr(err, "task")
	}
	return t, nil
}

// ListByProject returns a project's tasks oldest first.
func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, notes = ?, category = ?, status = ?, priority = ?,
		due_date = ?, return_id = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Notes,
		string(t.Category),
		string(t.Status),
		string(t.Priority),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableString(t.ReturnID),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		t.UpdatedAt.UTC().Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task")
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task")
}

func scanTask(s rowScanner) (*domain.Task, error) {
	var t domain.Task
	var categoryStr, statusStr, priorityStr, createdAtStr, updatedAtStr string
	var dueDateStr, returnIDStr, completedAtStr sql.NullString

	err := s.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Notes,
		&categoryStr, &statusStr, &priorityStr,
		&dueDateStr, &returnIDStr, &completedAtStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	t.Category = domain.TaskCategory(categoryStr)
	t.Status = domain.TaskStatus(statusStr)
	t.Priority = domain.TaskPriority(priorityStr)
	t.DueDate = parseNullableTime(dueDateStr, dateLayout)
	t.ReturnID = parseNullableString(returnIDStr)
	t.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)
	t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
