package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/core"
)

// SQLiteStore is a SQLite implementation of the EmailRepository interface
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (and if needed bootstraps) a SQLite record store.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS emails (
			fingerprint TEXT PRIMARY KEY,
			subject TEXT,
			sender TEXT,
			recipient TEXT,
			date TEXT,
			body TEXT,
			attachments TEXT,
			extracted_fields TEXT,
			ml_results TEXT,
			created_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// FindByFingerprint returns the stored record for a fingerprint, or
// core.ErrNotFound.
func (s *SQLiteStore) FindByFingerprint(ctx context.Context, fingerprint string) (*core.ClassificationRecord, error) {
	record := &core.ClassificationRecord{}
	var attachments, fields, results []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, subject, sender, recipient, date, body,
		       attachments, extracted_fields, ml_results, created_at
		FROM emails
		WHERE fingerprint = ?
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

// Insert stores a new record. The primary key on fingerprint makes the
// insert race-safe: a concurrent duplicate surfaces as core.ErrDuplicate.
func (s *SQLiteStore) Insert(ctx context.Context, record *core.ClassificationRecord) error {
	row, err := encodeRecord(record)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO emails (fingerprint, subject, sender, recipient, date, body,
		                    attachments, extracted_fields, ml_results, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.Fingerprint, record.Subject, record.Sender, record.Recipient,
		record.Date, record.Body, row.attachments, row.extractedFields,
		row.mlResults, record.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return core.ErrDuplicate
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// List returns stored records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*core.ClassificationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint, subject, sender, recipient, date, body,
		       attachments, extracted_fields, ml_results, created_at
		FROM emails
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
