package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// foreignKeyViolation is the Postgres SQLSTATE for a missing referenced row
const foreignKeyViolation = "23503"

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS reports (
	id           UUID PRIMARY KEY,
	profile_id   UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	generated_at TIMESTAMPTZ NOT NULL,
	data         JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS reports_profile_generated_idx ON reports (profile_id, generated_at DESC);`

// Repository persists profiles and their reports in Postgres as JSONB
type Repository struct {
	db *sql.DB
}

// NewRepository wraps an open database handle
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Open connects to Postgres and verifies the connection
func Open(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewRepository(db), nil
}

// Close releases the underlying connection pool
func (r *Repository) Close() error {
	return r.db.Close()
}

// Migrate creates the tables if they do not exist
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid profile id", domain.ErrProfileNotFound, id)
	}
	return parsed, nil
}

// SaveProfile inserts or replaces a profile. A profile without an ID is
// assigned a new UUID, which is written back to p and returned.
func (r *Repository) SaveProfile(ctx context.Context, p *domain.FinancialProfile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return "", fmt.Errorf("%w: id %q is not a UUID", domain.ErrInvalidProfile, p.ID)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}
	query := `
		INSERT INTO profiles (id, name, data, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, data = EXCLUDED.data, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, id.String(), p.Name, data); err != nil {
		return "", fmt.Errorf("failed to save profile: %w", err)
	}
	return id.String(), nil
}

// GetProfile loads a profile by ID
func (r *Repository) GetProfile(ctx context.Context, id string) (*domain.FinancialProfile, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var data []byte
	query := `SELECT data FROM profiles WHERE id = $1`
	err = r.db.QueryRowContext(ctx, query, parsed.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	var p domain.FinancialProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", id, err)
	}
	p.ID = parsed.String()
	return &p, nil
}

// DeleteProfile removes a profile and, through the foreign key, its reports
func (r *Repository) DeleteProfile(ctx context.Context, id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, parsed.String())
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProfileNotFound, id)
	}
	return nil
}

// SaveReport stores a report under its profile and returns the report ID
func (r *Repository) SaveReport(ctx context.Context, report *domain.ProjectionReport) (string, error) {
	profileID, err := parseID(report.ProfileID)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	id := uuid.NewString()
	query := `INSERT INTO reports (id, profile_id, generated_at, data) VALUES ($1, $2, $3, $4)`
	_, err = r.db.ExecContext(ctx, query, id, profileID.String(), report.GeneratedAt, data)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return "", fmt.Errorf("%w: %s", domain.ErrProfileNotFound, report.ProfileID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// LatestReport returns the most recently generated report for a profile
func (r *Repository) LatestReport(ctx context.Context, profileID string) (*domain.ProjectionReport, error) {
	parsed, err := parseID(profileID)
	if err != nil {
		return nil, err
	}
	var data []byte
	query := `
		SELECT data FROM reports
		WHERE profile_id = $1
		ORDER BY generated_at DESC
		LIMIT 1`
	err = r.db.QueryRowContext(ctx, query, parsed.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no report for %s", domain.ErrProfileNotFound, profileID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find report: %w", err)
	}

	var report domain.ProjectionReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}
