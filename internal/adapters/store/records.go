// Package store persists classification records. All backends share one
// row shape: scalar columns for the header fields plus JSON-encoded columns
// for attachments, extracted fields and the full model result. The
// fingerprint column carries the uniqueness constraint that makes inserts
// race-safe.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mikey/email-triage/internal/core"
)

type recordRow struct {
	attachments     []byte
	extractedFields []byte
	mlResults       []byte
}

func encodeRecord(record *core.ClassificationRecord) (*recordRow, error) {
	attachments, err := json.Marshal(record.Attachments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attachments: %w", err)
	}
	fields, err := json.Marshal(record.ExtractedFields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extracted fields: %w", err)
	}
	results, err := json.Marshal(record.MLResults)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model results: %w", err)
	}
	return &recordRow{
		attachments:     attachments,
		extractedFields: fields,
		mlResults:       results,
	}, nil
}

func decodeRecord(record *core.ClassificationRecord, attachments, fields, results []byte) error {
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &record.Attachments); err != nil {
			return fmt.Errorf("failed to decode attachments: %w", err)
		}
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &record.ExtractedFields); err != nil {
			return fmt.Errorf("failed to decode extracted fields: %w", err)
		}
	}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &record.MLResults); err != nil {
			return fmt.Errorf("failed to decode model results: %w", err)
		}
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]*core.ClassificationRecord, error) {
	var records []*core.ClassificationRecord
	for rows.Next() {
		record := &core.ClassificationRecord{}
		var attachments, fields, results []byte
		if err := rows.Scan(
			&record.Fingerprint, &record.Subject, &record.Sender,
			&record.Recipient, &record.Date, &record.Body,
			&attachments, &fields, &results, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := decodeRecord(record, attachments, fields, results); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
