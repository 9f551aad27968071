package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/metrics"
)

// AssetRepo mirrors externally registered devices into SQL so the
// fleet survives restarts. Simulated devices are never stored; the
// simulators respawn them.
type AssetRepo struct {
	s *Store
}

var _ asset.Repository = (*AssetRepo)(nil)

const assetColumns = `id, asset_type, sector, location, ip_address, firmware_version,
		metadata, status, registered_at, is_simulated`

// Save upserts by asset ID.
func (r *AssetRepo) Save(ctx context.Context, a *asset.Asset) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "assets", time.Since(start)) }()

	metadata, err := encodeJSON(a.Metadata)
	if err != nil {
		return apperrors.DatabaseError("Failed to encode asset metadata", err)
	}

	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			asset_type = EXCLUDED.asset_type,
			location = EXCLUDED.location,
			ip_address = EXCLUDED.ip_address,
			firmware_version = EXCLUDED.firmware_version,
			metadata = EXCLUDED.metadata,
			status = EXCLUDED.status
	`

	_, err = r.s.db.ExecContext(ctx, query,
		a.ID, a.Type, string(a.Sector), a.Location, a.IPAddress,
		a.FirmwareVersion, metadata, a.Status, formatTime(a.RegisteredAt),
		boolToInt(a.IsSimulated),
	)
	if err != nil {
		return apperrors.DatabaseError("Failed to save asset", err)
	}
	return nil
}

// Delete removes a mirrored asset. Deleting an unknown ID is a no-op;
// the fleet service already validated existence against its index.
func (r *AssetRepo) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("delete", "assets", time.Since(start)) }()

	if _, err := r.s.db.ExecContext(ctx, "DELETE FROM assets WHERE id = $1", id); err != nil {
		return apperrors.DatabaseError("Failed to delete asset", err)
	}
	return nil
}

// List returns mirrored assets in registration order.
func (r *AssetRepo) List(ctx context.Context) ([]*asset.Asset, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list", "assets", time.Since(start)) }()

	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY registered_at, id`
	rows, err := r.s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to list assets", err)
	}
	defer rows.Close()

	var out []*asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, apperrors.DatabaseError("Failed to scan asset", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("Failed to iterate assets", err)
	}
	return out, nil
}

func scanAsset(row rowScanner) (*asset.Asset, error) {
	var (
		a            asset.Asset
		sector       string
		metadata     sql.NullString
		registeredAt string
		simulatedInt int
	)

	err := row.Scan(
		&a.ID, &a.Type, &sector, &a.Location, &a.IPAddress,
		&a.FirmwareVersion, &metadata, &a.Status, &registeredAt, &simulatedInt,
	)
	if err != nil {
		return nil, err
	}

	a.Sector = telemetry.Sector(sector)
	a.IsSimulated = simulatedInt != 0

	if a.RegisteredAt, err = parseTime(registeredAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(metadata, &a.Metadata); err != nil {
		return nil, err
	}
	return &a, nil
}
