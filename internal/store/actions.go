package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/metrics"
)

// ActionRepo mirrors response actions into SQL.
type ActionRepo struct {
	s *Store
}

var _ response.Repository = (*ActionRepo)(nil)

const actionColumns = `id, alert_id, action_type, target, reason, priority, requires_approval,
		status, created_at, approved_by, approved_at, executed_at, completed_at, rolled_back_at,
		success, output`

// Save upserts by action ID. The executor re-saves on every lifecycle
// transition, so the conflict branch refreshes the mutable fields.
func (r *ActionRepo) Save(ctx context.Context, a *response.Action) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "response_actions", time.Since(start)) }()

	query := `
		INSERT INTO response_actions (` + actionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			approved_by = EXCLUDED.approved_by,
			approved_at = EXCLUDED.approved_at,
			executed_at = EXCLUDED.executed_at,
			completed_at = EXCLUDED.completed_at,
			rolled_back_at = EXCLUDED.rolled_back_at,
			success = EXCLUDED.success,
			output = EXCLUDED.output
	`

	_, err := r.s.db.ExecContext(ctx, query,
		a.ID, a.AlertID, a.ActionType, a.Target, a.Reason, a.Priority,
		boolToInt(a.RequiresApproval), a.Status, formatTime(a.CreatedAt),
		a.ApprovedBy, formatNullTime(a.ApprovedAt), formatNullTime(a.ExecutedAt),
		formatNullTime(a.CompletedAt), formatNullTime(a.RolledBackAt),
		boolToInt(a.Success), a.Output,
	)
	if err != nil {
		return apperrors.DatabaseError("Failed to save response action", err)
	}
	return nil
}

// GetByID retrieves one mirrored action.
func (r *ActionRepo) GetByID(ctx context.Context, id string) (*response.Action, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("get", "response_actions", time.Since(start)) }()

	query := `SELECT ` + actionColumns + ` FROM response_actions WHERE id = $1`
	a, err := scanAction(r.s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("response action")
	}
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to get response action", err)
	}
	return a, nil
}

// List returns mirrored actions most recent first. limit <= 0 means no
// limit.
func (r *ActionRepo) List(ctx context.Context, limit int) ([]*response.Action, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list", "response_actions", time.Since(start)) }()

	query := `SELECT ` + actionColumns + ` FROM response_actions ORDER BY created_at DESC, id`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to list response actions", err)
	}
	defer rows.Close()

	var out []*response.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, apperrors.DatabaseError("Failed to scan response action", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("Failed to iterate response actions", err)
	}
	return out, nil
}

func scanAction(row rowScanner) (*response.Action, error) {
	var (
		a            response.Action
		requiresInt  int
		successInt   int
		createdAt    string
		approvedAt   sql.NullString
		executedAt   sql.NullString
		completedAt  sql.NullString
		rolledBackAt sql.NullString
	)

	err := row.Scan(
		&a.ID, &a.AlertID, &a.ActionType, &a.Target, &a.Reason, &a.Priority,
		&requiresInt, &a.Status, &createdAt, &a.ApprovedBy, &approvedAt,
		&executedAt, &completedAt, &rolledBackAt, &successInt, &a.Output,
	)
	if err != nil {
		return nil, err
	}

	a.RequiresApproval = requiresInt != 0
	a.Success = successInt != 0

	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.ApprovedAt, err = parseNullTime(approvedAt); err != nil {
		return nil, err
	}
	if a.ExecutedAt, err = parseNullTime(executedAt); err != nil {
		return nil, err
	}
	if a.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, err
	}
	if a.RolledBackAt, err = parseNullTime(rolledBackAt); err != nil {
		return nil, err
	}
	return &a, nil
}
