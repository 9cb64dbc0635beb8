package parser

import (
	"bytes"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/ledongthuc/pdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/utils"
)

// TextExtractor pulls advisory plain text out of attachment bytes. Every
// path degrades to an empty string; extraction can never fail a parse.
type TextExtractor struct {
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewTextExtractor creates a new attachment text extractor
func NewTextExtractor(logger *zap.Logger, textProcessor *utils.TextProcessor) *TextExtractor {
	return &TextExtractor{
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// ExtractText extracts text from one attachment, keyed by declared content
// type with the filename extension as fallback. Unsupported formats yield
// "".
func (e *TextExtractor) ExtractText(filename, contentType string, content []byte) string {
	if len(content) == 0 {
		return ""
	}

	kind := mediaType(contentType)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case kind == "application/pdf" || ext == ".pdf":
		return e.pdfText(filename, content)
	case kind == "text/html" || ext == ".html" || ext == ".htm":
		return e.htmlText(content)
	case strings.HasPrefix(kind, "text/") || ext == ".txt" || ext == ".csv" || ext == ".md" || ext == ".json":
		return e.textProcessor.SanitizeUTF8(string(content))
	default:
		e.logger.Debug("Unsupported attachment format",
			zap.String("filename", filename),
			zap.String("content_type", contentType))
		return ""
	}
}

// pdfText extracts plain text from a PDF. The document is validated first
// so obviously corrupt files are skipped cheaply.
func (e *TextExtractor) pdfText(filename string, content []byte) string {
	if _, err := pdfapi.PageCount(bytes.NewReader(content), nil); err != nil {
		e.logger.Warn("Attachment is not a readable PDF",
			zap.String("filename", filename),
			zap.Error(err))
		return ""
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		e.logger.Warn("Failed to open PDF attachment",
			zap.String("filename", filename),
			zap.Error(err))
		return ""
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		e.logger.Warn("Failed to extract PDF text",
			zap.String("filename", filename),
			zap.Error(err))
		return ""
	}

	text, err := io.ReadAll(plain)
	if err != nil {
		return ""
	}
	return e.textProcessor.SanitizeUTF8(string(text))
}

// htmlText strips an HTML document down to its readable text.
func (e *TextExtractor) htmlText(content []byte) string {
	pageURL, _ := url.Parse("http://localhost/attachment")
	article, err := readability.FromReader(bytes.NewReader(content), pageURL)
	if err != nil {
		e.logger.Debug("Failed to extract readable text from HTML", zap.Error(err))
		return ""
	}
	return e.textProcessor.SanitizeUTF8(article.TextContent)
}

func mediaType(contentType string) string {
	if i := strings.Index(contentType, ";"); i != -1 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
