package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tiangong-ops/opshub/pkg/apperrors"
	"github.com/tiangong-ops/opshub/pkg/database"
	"github.com/tiangong-ops/opshub/pkg/models"
)

// SourceRepository defines data access for registered data sources.
// Secrets are stored as encrypted TEXT - encryption/decryption is
// handled by the service layer.
type SourceRepository interface {
	// List retrieves all data sources ordered by creation time.
	// Secrets are not selected; list reads are redacted at the store.
	List(ctx context.Context) ([]*models.DataSource, error)

	// Get retrieves a data source by ID together with its encrypted secret.
	Get(ctx context.Context, id string) (*models.DataSource, string, error)

	// Upsert inserts or fully replaces a record keyed by ID in a single
	// atomic statement. An empty encryptedSecret preserves the stored
	// secret on conflict rather than clearing it.
	Upsert(ctx context.Context, ds *models.DataSource, encryptedSecret string) error

	// Delete removes a data source by ID. Deleting an absent ID returns
	// apperrors.ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// sourceRepository implements SourceRepository using PostgreSQL.
type sourceRepository struct {
	db *database.DB
}

// NewSourceRepository creates a repository bound to an explicitly
// injected store handle.
func NewSourceRepository(db *database.DB) SourceRepository {
	return &sourceRepository{db: db}
}

// storeErr maps a driver failure to the error taxonomy while keeping the
// driver's literal text in the message for operator diagnosis.
func storeErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, apperrors.ErrStoreUnavailable, err)
}

func (r *sourceRepository) List(ctx context.Context) ([]*models.DataSource, error) {
	query := `
		SELECT id, name, engine_type, host, port, database_name, username, status, last_scanned, created_at, updated_at
		FROM data_sources
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeErr("failed to list data sources", err)
	}
	defer rows.Close()

	sources := []*models.DataSource{}
	for rows.Next() {
		var ds models.DataSource
		var lastScanned *string
		err := rows.Scan(
			&ds.ID,
			&ds.Name,
			&ds.EngineType,
			&ds.Host,
			&ds.Port,
			&ds.Database,
			&ds.Username,
			&ds.Status,
			&lastScanned,
			&ds.CreatedAt,
			&ds.UpdatedAt,
		)
		if err != nil {
			return nil, storeErr("failed to scan data source", err)
		}
		if lastScanned != nil {
			ds.LastScanned = *lastScanned
		}
		sources = append(sources, &ds)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating data sources", err)
	}

	return sources, nil
}

func (r *sourceRepository) Get(ctx context.Context, id string) (*models.DataSource, string, error) {
	query := `
		SELECT id, name, engine_type, host, port, database_name, username, secret_enc, status, last_scanned, created_at, updated_at
		FROM data_sources
		WHERE id = $1`

	var ds models.DataSource
	var encryptedSecret string
	var lastScanned *string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ds.ID,
		&ds.Name,
		&ds.EngineType,
		&ds.Host,
		&ds.Port,
		&ds.Database,
		&ds.Username,
		&encryptedSecret,
		&ds.Status,
		&lastScanned,
		&ds.CreatedAt,
		&ds.UpdatedAt,
	)
	if err != nil {
		return nil, "", storeErr("failed to get data source", err)
	}
	if lastScanned != nil {
		ds.LastScanned = *lastScanned
	}

	return &ds, encryptedSecret, nil
}

func (r *sourceRepository) Upsert(ctx context.Context, ds *models.DataSource, encryptedSecret string) error {
	now := time.Now()

	// Single-statement upsert keeps the replace atomic for concurrent
	// readers. Secret preservation happens here too: an empty incoming
	// secret keeps the stored one, so "leave blank to keep existing"
	// holds even when two saves race.
	query := `
		INSERT INTO data_sources (id, name, engine_type, host, port, database_name, username, secret_enc, status, last_scanned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			engine_type = EXCLUDED.engine_type,
			host = EXCLUDED.host,
			port = EXCLUDED.port,
			database_name = EXCLUDED.database_name,
			username = EXCLUDED.username,
			secret_enc = CASE WHEN EXCLUDED.secret_enc = '' THEN data_sources.secret_enc ELSE EXCLUDED.secret_enc END,
			status = EXCLUDED.status,
			last_scanned = EXCLUDED.last_scanned,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		ds.ID,
		ds.Name,
		ds.EngineType,
		ds.Host,
		ds.Port,
		ds.Database,
		ds.Username,
		encryptedSecret,
		ds.Status,
		ds.LastScanned,
		now,
	)
	if err != nil {
		return storeErr("failed to upsert data source", err)
	}

	return nil
}

func (r *sourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM data_sources WHERE id = $1`, id)
	if err != nil {
		return storeErr("failed to delete data source", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete data source %q: %w", id, apperrors.ErrNotFound)
	}

	return nil
}

// Ensure sourceRepository implements SourceRepository at compile time.
var _ SourceRepository = (*sourceRepository)(nil)
