package parser

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/utils"
)

func newTestParser() *EmlParser {
	logger := zap.NewNop()
	return NewEmlParser(NewTextExtractor(logger, utils.NewTextProcessor(logger)), logger)
}

func crlf(msg string) []byte {
	return []byte(strings.ReplaceAll(msg, "\n", "\r\n"))
}

func TestParsePlainMessage(t *testing.T) {
	raw := crlf(`From: Alice <alice@example.com>
To: bob@example.com, carol@example.com
Subject: Payoff request
Date: Fri, 01 Mar 2024 10:00:00 +0000
Content-Type: text/plain; charset=utf-8

Please send the payoff amount for loan 1234.
`)

	email, err := newTestParser().Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if email.Subject != "Payoff request" {
		t.Errorf("subject = %q", email.Subject)
	}
	if email.Sender != "alice@example.com" {
		t.Errorf("sender = %q", email.Sender)
	}
	if email.Recipient != "bob@example.com; carol@example.com" {
		t.Errorf("recipient = %q", email.Recipient)
	}
	if email.Date != "2024-03-01T10:00:00Z" {
		t.Errorf("date = %q", email.Date)
	}
	if !strings.Contains(email.Body, "payoff amount for loan 1234") {
		t.Errorf("body = %q", email.Body)
	}
	if len(email.Attachments) != 0 {
		t.Errorf("attachments = %d, want 0", len(email.Attachments))
	}
}

func TestParseMissingHeadersUsePlaceholders(t *testing.T) {
	raw := crlf(`MIME-Version: 1.0
Content-Type: text/plain; charset=utf-8

`)

	email, err := newTestParser().Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if email.Subject != core.NoSubject {
		t.Errorf("subject = %q, want %q", email.Subject, core.NoSubject)
	}
	if email.Sender != core.UnknownSender {
		t.Errorf("sender = %q, want %q", email.Sender, core.UnknownSender)
	}
	if email.Recipient != core.UnknownRecipient {
		t.Errorf("recipient = %q, want %q", email.Recipient, core.UnknownRecipient)
	}
	if email.Date != core.UnknownDate {
		t.Errorf("date = %q, want %q", email.Date, core.UnknownDate)
	}
	if email.Body != core.NoBody {
		t.Errorf("body = %q, want %q", email.Body, core.NoBody)
	}
}

func TestParseUnparseableDate(t *testing.T) {
	raw := crlf(`From: alice@example.com
Subject: Hello
Date: sometime last week
Content-Type: text/plain

Hi.
`)

	email, err := newTestParser().Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if email.Date != core.UnknownDate {
		t.Errorf("date = %q, want %q", email.Date, core.UnknownDate)
	}
}

func TestParseMultipartWithAttachments(t *testing.T) {
	raw := crlf(`From: alice@example.com
To: bob@example.com
Subject: Documents attached
Date: Fri, 01 Mar 2024 10:00:00 +0000
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="frontier"

--frontier
Content-Type: text/plain; charset=utf-8

See the attached documents.
--frontier
Content-Type: text/plain; charset=utf-8
Content-Disposition: attachment; filename="notes.txt"

Loan number is 1234.
--frontier
Content-Type: text/csv
Content-Disposition: attachment; filename="schedule.csv"

date,amount
2024-04-01,500.00
--frontier--
`)

	email, err := newTestParser().Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !strings.Contains(email.Body, "See the attached documents.") {
		t.Errorf("body = %q", email.Body)
	}
	if len(email.Attachments) != 2 {
		t.Fatalf("attachments = %d, want 2", len(email.Attachments))
	}
	if email.Attachments[0].Filename != "notes.txt" {
		t.Errorf("first attachment = %q", email.Attachments[0].Filename)
	}
	if !strings.Contains(email.Attachments[0].ExtractedText, "Loan number is 1234.") {
		t.Errorf("first attachment text = %q", email.Attachments[0].ExtractedText)
	}
	if email.Attachments[1].Filename != "schedule.csv" {
		t.Errorf("second attachment = %q", email.Attachments[1].Filename)
	}
	if !strings.Contains(email.Attachments[1].ExtractedText, "2024-04-01,500.00") {
		t.Errorf("second attachment text = %q", email.Attachments[1].ExtractedText)
	}
}

func TestDecodeDefersAttachmentExtraction(t *testing.T) {
	raw := crlf(`From: alice@example.com
Subject: Documents attached
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="frontier"

--frontier
Content-Type: text/plain; charset=utf-8

See the attached notes.
--frontier
Content-Type: text/plain; charset=utf-8
Content-Disposition: attachment; filename="notes.txt"

Loan number is 1234.
--frontier--
`)

	pending, err := newTestParser().Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	email := pending.Email()
	if email.Subject != "Documents attached" {
		t.Errorf("subject = %q", email.Subject)
	}
	if len(email.Attachments) != 0 {
		t.Errorf("attachments extracted before Complete: %+v", email.Attachments)
	}

	full := pending.Complete()
	if len(full.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(full.Attachments))
	}
	if !strings.Contains(full.Attachments[0].ExtractedText, "Loan number is 1234.") {
		t.Errorf("attachment text = %q", full.Attachments[0].ExtractedText)
	}
}

func TestParseHTMLOnlyBody(t *testing.T) {
	raw := crlf(`From: alice@example.com
To: bob@example.com
Subject: Escrow analysis
Date: Fri, 01 Mar 2024 10:00:00 +0000
MIME-Version: 1.0
Content-Type: text/html; charset=utf-8

<html><body><article><p>Dear servicing team, I am writing to request a copy of
my most recent escrow analysis statement for loan 1234. My monthly payment
changed in March and I would like to understand how the new escrow portion was
calculated, including the projected tax and insurance disbursements for the
coming year. Please send the statement to this address.</p></article></body></html>
`)

	email, err := newTestParser().Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if email.Body == core.NoBody {
		t.Fatal("HTML-only message produced no body text")
	}
	if !strings.Contains(email.Body, "escrow analysis statement") {
		t.Errorf("body = %q", email.Body)
	}
}
