package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/atelier/internal/db"
	"github.com/alexanderramin/atelier/internal/domain"
)

const returnColumns = `id, project_id, item, vendor, amount_cents, status, due_date, task_id, created_at, updated_at`

// SQLiteReturnRepo implements ReturnRepo over a *sql.DB or *sql.Tx.
type SQLiteReturnRepo struct {
	db db.DBTX
}

func NewSQLiteReturnRepo(db db.DBTX) *SQLiteReturnRepo {
	return &SQLiteReturnRepo{db: db}
}

func (r *SQLiteReturnRepo) Create(ctx context.Context, ret *domain.Return) error {
	query := `INSERT INTO returns (` + returnColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		ret.ID,
		ret.ProjectID,
		ret.Item,
		ret.Vendor,
		ret.AmountCents,
		string(ret.Status),
		ret.DueDate.UTC().Format(dateLayout),
		nullableString(ret.TaskID),
		ret.CreatedAt.UTC().Format(time.RFC3339),
		ret.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting return: %w", err)
	}
	return nil
}

func (r *SQLiteReturnRepo) GetByID(ctx context.Context, id string) (*domain.Return, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+returnColumns+` FROM returns WHERE id = ?`, id)
	ret, err := scanReturn(row)
	if err != nil {
		return nil, notFoundOr(err, "return")
	}
	return ret, nil
}

func (r *SQLiteReturnRepo) List(ctx context.Context, openOnly bool) ([]*domain.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns ORDER BY due_date, id`
	if openOnly {
		query = `SELECT ` + returnColumns + ` FROM returns WHERE status = 'open' ORDER BY due_date, id`
	}
	return r.query(ctx, query)
}

func (r *SQLiteReturnRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns
		WHERE status = 'open' AND task_id IS NULL AND due_date < ?
		AND project_id IN (SELECT id FROM projects WHERE archived_at IS NULL)
		ORDER BY due_date, id`
	return r.query(ctx, query, asOf.UTC().Format(dateLayout))
}

func (r *SQLiteReturnRepo) Update(ctx context.Context, ret *domain.Return) error {
	query := `UPDATE returns SET item = ?, vendor = ?, amount_cents = ?, status = ?, due_date = ?,
		task_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		ret.Item,
		ret.Vendor,
		ret.AmountCents,
		string(ret.Status),
		ret.DueDate.UTC().Format(dateLayout),
		nullableString(ret.TaskID),
		ret.UpdatedAt.UTC().Format(time.RFC3339),
		ret.ID,
	)
	if err != nil {
		return fmt.Errorf("updating return: %w", err)
	}
	return requireAffected(res, "return")
}

func (r *SQLiteReturnRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM returns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting return: %w", err)
	}
	return requireAffected(res, "return")
}

func (r *SQLiteReturnRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Return, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing returns: %w", err)
	}
	defer rows.Close()

	var out []*domain.Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning return row: %w", err)
		}
		out = append(out, ret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating returns: %w", err)
	}
	return out, nil
}

func scanReturn(s rowScanner) (*domain.Return, error) {
	var ret domain.Return
	var statusStr, dueDateStr, createdAtStr, updatedAtStr string
	var taskIDStr sql.NullString

	err := s.Scan(
		&ret.ID, &ret.ProjectID, &ret.Item, &ret.Vendor, &ret.AmountCents,
		&statusStr, &dueDateStr, &taskIDStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	ret.Status = domain.ReturnStatus(statusStr)
	ret.TaskID = parseNullableString(taskIDStr)
	ret.DueDate, err = time.Parse(dateLayout, dueDateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	ret.CreatedAt, ret.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}
