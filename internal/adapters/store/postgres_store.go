package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/core"
)

// Postgres unique_violation SQLSTATE.
const pgUniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of the EmailRepository
// interface
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore opens a PostgreSQL record store.
func NewPostgresStore(dsn string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS emails (
			fingerprint TEXT PRIMARY KEY,
			subject TEXT,
			sender TEXT,
			recipient TEXT,
			date TEXT,
			body TEXT,
			attachments JSONB,
			extracted_fields JSONB,
			ml_results JSONB,
			created_at TIMESTAMPTZ
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &PostgresStore{
		db:     db,
		logger: logger,
	}, nil
}

// FindByFingerprint returns the stored record for a fingerprint, or
// core.ErrNotFound.
func (s *PostgresStore) FindByFingerprint(ctx context.Context, fingerprint string) (*core.ClassificationRecord, error) {
	record := &core.ClassificationRecord{}
	var attachments, fields, results []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, subject, sender, recipient, date, body,
		       attachments, extracted_fields, ml_results, created_at
		FROM emails
		WHERE fingerprint = $1
	`, fingerprint).Scan(
		&record.Fingerprint, &record.Subject, &record.Sender,
		&record.Recipient, &record.Date, &record.Body,
		&attachments, &fields, &results, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	if err := decodeRecord(record, attachments, fields, results); err != nil {
		return nil, err
	}
	return record, nil
}

// Insert stores a new record, mapping a unique violation to
// core.ErrDuplicate.
func (s *PostgresStore) Insert(ctx context.Context, record *core.ClassificationRecord) error {
	row, err := encodeRecord(record)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO emails (fingerprint, subject, sender, recipient, date, body,
		                    attachments, extracted_fields, ml_results, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, record.Fingerprint, record.Subject, record.Sender, record.Recipient,
		record.Date, record.Body, row.attachments, row.extractedFields,
		row.mlResults, record.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return core.ErrDuplicate
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// List returns stored records, newest first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]*core.ClassificationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint, subject, sender, recipient, date, body,
		       attachments, extracted_fields, ml_results, created_at
		FROM emails
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
