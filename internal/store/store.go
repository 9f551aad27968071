// Package store mirrors alerts, response actions and registered assets
// into SQL. Services keep the authoritative state in memory and write
// here behind the hot path, so the mirror only has to survive restarts
// and answer offline queries.
//
// The same schema and queries run on SQLite (embedded, the default) and
// Postgres: placeholders use the $N syntax both engines accept,
// timestamps travel as fixed-width UTC RFC 3339 text and booleans as
// 0/1 integers.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
)

// Store owns the database handle and hands out the per-table
// repositories.
type Store struct {
	db     *sql.DB
	driver string
	logger *logger.Logger
}

// Open connects to the configured backend. A fresh SQLite file is
// migrated immediately so it is usable without any setup; Postgres
// schemas are applied explicitly (see cmd/migrate) so operators decide
// when DDL runs.
func Open(cfg config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite"
	}

	var db *sql.DB
	var err error

	switch driver {
	case "sqlite":
		db, err = sql.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set busy timeout: %w", err)
		}
		// SQLite allows one writer at a time; a wider pool would just
		// queue on the file lock.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(time.Hour)

	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
		)
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres database: %w", err)
		}
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, driver: driver, logger: log.Component("store")}

	if driver == "sqlite" {
		if err := s.Migrate(context.Background()); err != nil {
			db.Close()
			return nil, err
		}
	}

	s.logger.Infof("Connected to %s store", driver)
	return s, nil
}

// Alerts returns the alert mirror.
func (s *Store) Alerts() *AlertRepo { return &AlertRepo{s: s} }

// Actions returns the response action mirror.
func (s *Store) Actions() *ActionRepo { return &ActionRepo{s: s} }

// Assets returns the registered asset mirror.
func (s *Store) Assets() *AssetRepo { return &AssetRepo{s: s} }

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Driver reports which backend the store was opened against.
func (s *Store) Driver() string { return s.driver }

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// timeFormat is RFC 3339 in UTC with fixed-width fractional seconds.
// Fixed width keeps ORDER BY on text columns chronological.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func encodeJSON(v interface{}) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeJSON(ns sql.NullString, dest interface{}) error {
	if !ns.Valid || ns.String == "" || ns.String == "null" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), dest)
}

// boolToInt converts for the 0/1 integer columns. Binding a Go bool
// directly would fail on Postgres, which refuses bool values for
// INTEGER columns.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
