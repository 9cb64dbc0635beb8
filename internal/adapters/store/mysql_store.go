package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/core"
)

// MySQL duplicate-key error number.
const mysqlDupEntry = 1062

// MySQLStore is a MySQL implementation of the EmailRepository interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore opens a MySQL record store. The DSN must include
// parseTime=true so created_at scans as time.Time.
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS emails (
			fingerprint VARCHAR(64) PRIMARY KEY,
			subject TEXT,
			sender TEXT,
			recipient TEXT,
			date VARCHAR(64),
			body MEDIUMTEXT,
			attachments JSON,
			extracted_fields JSON,
			ml_results JSON,
			created_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// FindByFingerprint returns the stored record for a fingerprint, or
// core.ErrNotFound.
func (s *MySQLStore) FindByFingerprint(ctx context.Context, fingerprint string) (*core.ClassificationRecord, error) {
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

// Insert stores a new record, mapping a duplicate-key failure to
// core.ErrDuplicate.
func (s *MySQLStore) Insert(ctx context.Context, record *core.ClassificationRecord) error {
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
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDupEntry {
			return core.ErrDuplicate
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// List returns stored records, newest first.
func (s *MySQLStore) List(ctx context.Context, limit int) ([]*core.ClassificationRecord, error) {
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
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
