package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"likescan/domain/core"
	"likescan/domain/scan"
	apperrors "likescan/internal/errors"
	"likescan/ports"
)

// ResultRepository implements ResultRepository for PostgreSQL. Results are
// stored as JSONB payloads keyed by scan id; the record is immutable, so a
// re-save of the same id simply overwrites an identical payload.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Connect opens a PostgreSQL connection and verifies it
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, apperrors.DatabaseError("connect", err)
	}
	return db, nil
}

// Bootstrap creates the result tables if they don't exist
func (r *ResultRepository) Bootstrap(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS scan_results_1d (
			id TEXT PRIMARY KEY,
			parameter TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return apperrors.DatabaseError("bootstrap scan_results_1d", err)
	}
	_, err = r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS scan_results_2d (
			id TEXT PRIMARY KEY,
			parameter_x TEXT NOT NULL,
			parameter_y TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return apperrors.DatabaseError("bootstrap scan_results_2d", err)
	}
	return nil
}

// Save1D persists a 1D evaluation result
func (r *ResultRepository) Save1D(ctx context.Context, result scan.Result1D) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return apperrors.DatabaseError("marshal 1d result", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO scan_results_1d (id, parameter, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`,
		result.ID.String(), string(result.Axis.Parameter), payload)
	if err != nil {
		return apperrors.DatabaseError("save 1d result", err)
	}
	return nil
}

// Save2D persists a 2D evaluation result
func (r *ResultRepository) Save2D(ctx context.Context, result scan.Result2D) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return apperrors.DatabaseError("marshal 2d result", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO scan_results_2d (id, parameter_x, parameter_y, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`,
		result.ID.String(), string(result.AxisX.Parameter), string(result.AxisY.Parameter), payload)
	if err != nil {
		return apperrors.DatabaseError("save 2d result", err)
	}
	return nil
}

// Get1D retrieves a 1D result by scan id
func (r *ResultRepository) Get1D(ctx context.Context, id core.ScanID) (*scan.Result1D, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM scan_results_1d WHERE id = $1`, id.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(fmt.Sprintf("1d result %s", id))
	}
	if err != nil {
		return nil, apperrors.DatabaseError("get 1d result", err)
	}
	var result scan.Result1D
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, apperrors.DatabaseError("unmarshal 1d result", err)
	}
	return &result, nil
}

// Get2D retrieves a 2D result by scan id
func (r *ResultRepository) Get2D(ctx context.Context, id core.ScanID) (*scan.Result2D, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM scan_results_2d WHERE id = $1`, id.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(fmt.Sprintf("2d result %s", id))
	}
	if err != nil {
		return nil, apperrors.DatabaseError("get 2d result", err)
	}
	var result scan.Result2D
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, apperrors.DatabaseError("unmarshal 2d result", err)
	}
	return &result, nil
}

// List1D returns the most recent 1D results, newest first
func (r *ResultRepository) List1D(ctx context.Context, limit int) ([]scan.Result1D, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM scan_results_1d ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("list 1d results", err)
	}
	defer rows.Close()

	var results []scan.Result1D
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, apperrors.DatabaseError("scan 1d result row", err)
		}
		var result scan.Result1D
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, apperrors.DatabaseError("unmarshal 1d result", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// Ensure ResultRepository implements the port
var _ ports.ResultRepository = (*ResultRepository)(nil)
