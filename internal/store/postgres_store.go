package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/formaworks/uniform-cart-service/internal/errors"
	_ "github.com/lib/pq"
)

const defaultQueryTimeout = 5 * time.Second

// postgresStore persists cart state in a single key-value table:
//
//	CREATE TABLE IF NOT EXISTS cart_store (
//	    key        TEXT PRIMARY KEY,
//	    value      JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type postgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

// Open connects to Postgres and verifies the connection is usable.
func Open(dsn string, maxOpenConns, maxIdleConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func (p *postgresStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	dbCtx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
		SELECT value
		FROM cart_store
		WHERE key = $1
	`

	var data []byte

	err := p.db.QueryRowContext(dbCtx, query, key).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}

		return false, apperrors.PersistenceError(fmt.Sprintf("failed to query key %s", key)).WithError(err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, apperrors.PersistenceError(fmt.Sprintf("failed to unmarshal stored data for key %s", key)).WithError(err)
	}

	return true, nil
}

func (p *postgresStore) Save(ctx context.Context, key string, value any) error {
	dbCtx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.PersistenceError(fmt.Sprintf("failed to marshal value for key %s", key)).WithError(err)
	}

	query := `
		INSERT INTO cart_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := p.db.ExecContext(dbCtx, query, key, data); err != nil {
		return apperrors.PersistenceError(fmt.Sprintf("failed to save key %s", key)).WithError(err)
	}

	return nil
}

func (p *postgresStore) Delete(ctx context.Context, key string) error {
	dbCtx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
		DELETE FROM cart_store
		WHERE key = $1
	`

	if _, err := p.db.ExecContext(dbCtx, query, key); err != nil {
		return apperrors.PersistenceError(fmt.Sprintf("failed to delete key %s", key)).WithError(err)
	}

	return nil
}

func (p *postgresStore) Close() error {
	return p.db.Close()
}
