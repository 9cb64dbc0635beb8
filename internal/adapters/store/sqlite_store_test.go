package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "triage.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(fingerprint string, createdAt time.Time) *core.ClassificationRecord {
	return &core.ClassificationRecord{
		Fingerprint: fingerprint,
		Subject:     "Payoff request",
		Sender:      "borrower@example.com",
		Recipient:   "servicing@example.com",
		Date:        "2024-03-01T10:00:00Z",
		Body:        "Please send the payoff amount.",
		Attachments: []core.Attachment{
			{Filename: "payoff.pdf", ContentType: "application/pdf", ExtractedText: "Payoff statement"},
		},
		ExtractedFields: map[string]string{"loan_number": "1234"},
		MLResults: &core.ClassificationResult{
			PrimaryIntent:   "Loan payoff quote request",
			Summary:         "Borrower asks for the payoff amount.",
			ExtractedFields: map[string]string{"loan_number": "1234"},
			RequestTypes: []core.RequestTypeScore{
				{RequestType: "Money Movement - Inbound", ConfidenceScore: 91, SubRequestType: "Principal", SubConfidenceScore: 80},
			},
		},
		CreatedAt: createdAt,
	}
}

func TestSQLiteInsertAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := sampleRecord("fp-1", time.Now().UTC().Truncate(time.Second))
	if err := store.Insert(ctx, want); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.FindByFingerprint(ctx, "fp-1")
	if err != nil {
		t.Fatalf("FindByFingerprint failed: %v", err)
	}
	if got.Subject != want.Subject || got.Sender != want.Sender || got.Body != want.Body {
		t.Errorf("header fields differ: got %+v", got)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Filename != "payoff.pdf" {
		t.Errorf("attachments = %+v", got.Attachments)
	}
	if got.ExtractedFields["loan_number"] != "1234" {
		t.Errorf("extracted fields = %v", got.ExtractedFields)
	}
	if got.MLResults == nil || got.MLResults.PrimaryIntent != want.MLResults.PrimaryIntent {
		t.Errorf("ml results = %+v", got.MLResults)
	}
	if len(got.MLResults.RequestTypes) != 1 || got.MLResults.RequestTypes[0].ConfidenceScore != 91 {
		t.Errorf("request types = %+v", got.MLResults.RequestTypes)
	}
}

func TestSQLiteFindMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FindByFingerprint(context.Background(), "absent")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want core.ErrNotFound", err)
	}
}

func TestSQLiteDuplicateInsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleRecord("fp-1", time.Now().UTC())
	if err := store.Insert(ctx, first); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := store.Insert(ctx, sampleRecord("fp-1", time.Now().UTC()))
	if !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("err = %v, want core.ErrDuplicate", err)
	}

	got, err := store.FindByFingerprint(ctx, "fp-1")
	if err != nil {
		t.Fatalf("FindByFingerprint failed: %v", err)
	}
	if got.Subject != first.Subject {
		t.Error("original record was overwritten")
	}
}

func TestSQLiteListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		record := sampleRecord(fmt.Sprintf("fp-%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := store.Insert(ctx, record); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}

	records, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	for i, want := range []string{"fp-4", "fp-3", "fp-2"} {
		if records[i].Fingerprint != want {
			t.Errorf("records[%d] = %s, want %s", i, records[i].Fingerprint, want)
		}
	}
}

func TestSQLiteNilResultColumns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := sampleRecord("fp-sparse", time.Now().UTC())
	record.Attachments = nil
	record.ExtractedFields = nil
	if err := store.Insert(ctx, record); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.FindByFingerprint(ctx, "fp-sparse")
	if err != nil {
		t.Fatalf("FindByFingerprint failed: %v", err)
	}
	if len(got.Attachments) != 0 {
		t.Errorf("attachments = %+v, want none", got.Attachments)
	}
	if len(got.ExtractedFields) != 0 {
		t.Errorf("extracted fields = %v, want none", got.ExtractedFields)
	}
}
