package parser

import (
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/utils"
)

func newTestExtractor() *TextExtractor {
	logger := zap.NewNop()
	return NewTextExtractor(logger, utils.NewTextProcessor(logger))
}

func TestExtractTextPlain(t *testing.T) {
	e := newTestExtractor()
	got := e.ExtractText("notes.txt", "text/plain; charset=utf-8", []byte("loan 1234"))
	if got != "loan 1234" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTextExtensionFallback(t *testing.T) {
	e := newTestExtractor()
	got := e.ExtractText("data.csv", "application/octet-stream", []byte("a,b\n1,2"))
	if got != "a,b\n1,2" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTextSanitizesInvalidUTF8(t *testing.T) {
	e := newTestExtractor()
	got := e.ExtractText("notes.txt", "text/plain", []byte{'h', 'i', 0xff, '!'})
	if got != "hi!" {
		t.Errorf("got %q, want %q", got, "hi!")
	}
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	e := newTestExtractor()
	if got := e.ExtractText("photo.png", "image/png", []byte{0x89, 'P', 'N', 'G'}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestExtractTextEmptyContent(t *testing.T) {
	e := newTestExtractor()
	if got := e.ExtractText("notes.txt", "text/plain", nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestExtractTextCorruptPDF(t *testing.T) {
	e := newTestExtractor()
	if got := e.ExtractText("doc.pdf", "application/pdf", []byte("not a pdf")); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
