// Package postgres upserts analysed trajectory points into PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

// SinkName labels this sink in logs and metrics.
const SinkName = "postgres"

const defaultTimeout = 30 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS fire_risk_points (
	location   TEXT             NOT NULL,
	date       DATE             NOT NULL,
	fire_risk  DOUBLE PRECISION NOT NULL,
	vr7        DOUBLE PRECISION,
	ictr14     DOUBLE PRECISION,
	tier       TEXT,
	run_id     TEXT             NOT NULL,
	updated_at TIMESTAMPTZ      NOT NULL DEFAULT now(),
	PRIMARY KEY (location, date)
)`

const upsertPoint = `
INSERT INTO fire_risk_points (location, date, fire_risk, vr7, ictr14, tier, run_id, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (location, date) DO UPDATE SET
	fire_risk = EXCLUDED.fire_risk,
	vr7 = EXCLUDED.vr7,
	ictr14 = EXCLUDED.ictr14,
	tier = EXCLUDED.tier,
	run_id = EXCLUDED.run_id,
	updated_at = now()`

const selectPoints = `
SELECT location, date, fire_risk, vr7, ictr14, tier
FROM fire_risk_points
WHERE location = $1
ORDER BY date`

// Store writes trajectory points to the fire_risk_points table.
// It implements pipeline.PointSink.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck,gosec // ping error takes precedence
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewStore wraps an open database.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, timeout: defaultTimeout}
}

// Name implements pipeline.PointSink.
func (s *Store) Name() string { return SinkName }

// EnsureSchema creates the points table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create fire_risk_points: %w", err)
	}
	return nil
}

// PublishPoints upserts a location's points in one transaction. Re-running a
// report overwrites the previous rows for the same (location, date).
func (s *Store) PublishPoints(ctx context.Context, runID string, points []domain.TrajectoryPoint) error {
	if len(points) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PreparexContext(ctx, upsertPoint)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		r := toRow(p)
		if _, err := stmt.ExecContext(ctx, r.Location, r.Date, r.Risk, r.VR7, r.Indicator, r.Tier, runID); err != nil {
			return fmt.Errorf("upsert %s %s: %w", r.Location, r.Date.Format(domain.RiskDateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit points: %w", err)
	}
	return nil
}

// Points returns the stored points of a location in date order.
func (s *Store) Points(ctx context.Context, location string) ([]domain.TrajectoryPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rows []pointRow
	if err := s.db.SelectContext(ctx, &rows, selectPoints, location); err != nil {
		return nil, fmt.Errorf("select points for %s: %w", location, err)
	}
	out := make([]domain.TrajectoryPoint, len(rows))
	for i, r := range rows {
		out[i] = r.toPoint()
	}
	return out, nil
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type pointRow struct {
	Location  string          `db:"location"`
	Date      time.Time       `db:"date"`
	Risk      float64         `db:"fire_risk"`
	VR7       sql.NullFloat64 `db:"vr7"`
	Indicator sql.NullFloat64 `db:"ictr14"`
	Tier      sql.NullString  `db:"tier"`
}

func toRow(p domain.TrajectoryPoint) pointRow {
	return pointRow{
		Location:  p.Location,
		Date:      p.Date,
		Risk:      p.Risk,
		VR7:       sql.NullFloat64{Float64: p.VR7.Value, Valid: p.VR7.Valid},
		Indicator: sql.NullFloat64{Float64: p.Indicator.Value, Valid: p.Indicator.Valid},
		Tier:      sql.NullString{String: string(p.Tier), Valid: p.Tier != ""},
	}
}

func (r pointRow) toPoint() domain.TrajectoryPoint {
	return domain.TrajectoryPoint{
		Location:  r.Location,
		Date:      r.Date,
		Risk:      r.Risk,
		VR7:       domain.Reading{Value: r.VR7.Float64, Valid: r.VR7.Valid},
		Indicator: domain.Reading{Value: r.Indicator.Float64, Valid: r.Indicator.Valid},
		Tier:      domain.RiskTier(r.Tier.String),
	}
}
