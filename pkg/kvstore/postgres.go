package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	createDocumentsTable = `CREATE TABLE IF NOT EXISTS kv_documents (
	key TEXT PRIMARY KEY,
	value JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	selectDocument = `SELECT value FROM kv_documents WHERE key = $1`
	upsertDocument = `INSERT INTO kv_documents (key, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteDocument = `DELETE FROM kv_documents WHERE key = $1`
)

// PostgresBackend stores documents as JSONB rows in kv_documents.
type PostgresBackend struct {
	db *sqlx.DB
}

// NewPostgresBackend wraps an open database handle.
func NewPostgresBackend(db *sqlx.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// EnsureSchema creates the documents table when missing.
func (p *PostgresBackend) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, createDocumentsTable)
	return err
}

func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	if err := p.db.GetContext(ctx, &value, selectDocument, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (p *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	// lib/pq sends []byte as bytea; jsonb needs text.
	_, err := p.db.ExecContext(ctx, upsertDocument, key, string(value), time.Now().UTC())
	return err
}

func (p *PostgresBackend) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, deleteDocument, key)
	return err
}

func (p *PostgresBackend) Close() error {
	return p.db.Close()
}
