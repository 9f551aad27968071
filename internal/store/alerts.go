package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/metrics"
)

// AlertRepo mirrors alerts into SQL.
type AlertRepo struct {
	s *Store
}

var _ alert.Repository = (*AlertRepo)(nil)

const alertColumns = `id, created_at, updated_at, severity, severity_name, asset_id, asset_type,
		sector, score, status, description, detector_votes, acknowledged_by, acknowledged_at,
		resolved_by, resolved_at, resolution_notes, response_actions`

// Save upserts by alert ID. Lifecycle updates (acknowledge, resolve,
// fold) arrive as repeat saves of the same ID.
func (r *AlertRepo) Save(ctx context.Context, a *alert.Alert) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "alerts", time.Since(start)) }()

	votes, err := encodeJSON(a.DetectorVotes)
	if err != nil {
		return apperrors.DatabaseError("Failed to encode detector votes", err)
	}
	actions, err := encodeJSON(a.ResponseActions)
	if err != nil {
		return apperrors.DatabaseError("Failed to encode response actions", err)
	}

	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			updated_at = EXCLUDED.updated_at,
			severity = EXCLUDED.severity,
			severity_name = EXCLUDED.severity_name,
			score = EXCLUDED.score,
			status = EXCLUDED.status,
			description = EXCLUDED.description,
			detector_votes = EXCLUDED.detector_votes,
			acknowledged_by = EXCLUDED.acknowledged_by,
			acknowledged_at = EXCLUDED.acknowledged_at,
			resolved_by = EXCLUDED.resolved_by,
			resolved_at = EXCLUDED.resolved_at,
			resolution_notes = EXCLUDED.resolution_notes,
			response_actions = EXCLUDED.response_actions
	`

	_, err = r.s.db.ExecContext(ctx, query,
		a.ID, formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
		string(a.Severity), a.SeverityLabel, a.AssetID, a.AssetType,
		string(a.Sector), a.Score, a.Status, a.Description, votes,
		a.AcknowledgedBy, formatNullTime(a.AcknowledgedAt),
		a.ResolvedBy, formatNullTime(a.ResolvedAt),
		a.ResolutionNotes, actions,
	)
	if err != nil {
		return apperrors.DatabaseError("Failed to save alert", err)
	}
	return nil
}

// GetByID retrieves one mirrored alert.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*alert.Alert, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("get", "alerts", time.Since(start)) }()

	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`
	a, err := scanAlert(r.s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("alert")
	}
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to get alert", err)
	}
	return a, nil
}

// List returns mirrored alerts most recent first. limit <= 0 means no
// limit.
func (r *AlertRepo) List(ctx context.Context, limit int) ([]*alert.Alert, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list", "alerts", time.Since(start)) }()

	query := `SELECT ` + alertColumns + ` FROM alerts ORDER BY created_at DESC, id`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to list alerts", err)
	}
	defer rows.Close()

	var out []*alert.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, apperrors.DatabaseError("Failed to scan alert", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("Failed to iterate alerts", err)
	}
	return out, nil
}

func scanAlert(row rowScanner) (*alert.Alert, error) {
	var (
		a         alert.Alert
		severity  string
		sector    string
		createdAt string
		updatedAt string
		votes     sql.NullString
		ackAt     sql.NullString
		resAt     sql.NullString
		actions   sql.NullString
	)

	err := row.Scan(
		&a.ID, &createdAt, &updatedAt, &severity, &a.SeverityLabel,
		&a.AssetID, &a.AssetType, &sector, &a.Score, &a.Status,
		&a.Description, &votes, &a.AcknowledgedBy, &ackAt,
		&a.ResolvedBy, &resAt, &a.ResolutionNotes, &actions,
	)
	if err != nil {
		return nil, err
	}

	a.Severity = detection.Severity(severity)
	a.Sector = telemetry.Sector(sector)

	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if a.AcknowledgedAt, err = parseNullTime(ackAt); err != nil {
		return nil, err
	}
	if a.ResolvedAt, err = parseNullTime(resAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(votes, &a.DetectorVotes); err != nil {
		return nil, err
	}
	if err := decodeJSON(actions, &a.ResponseActions); err != nil {
		return nil, err
	}
	return &a, nil
}
