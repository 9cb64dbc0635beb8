// Package prompt builds the instruction sent to the classification model.
// Every provider adapter submits the same prompt; only transport differs.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mikey/email-triage/internal/core"
)

const header = `You have to act as an AI agent understanding Loan Servicing that can find the primary intent and summary of an email, and also assign request type and sub-request type to the email based on the specifications provided in the Knowledge Base.
You will be provided the email body and the extracted email attachments as inputs.

Knowledge Base:
For the assignment of Request type and Sub Request type, you need to follow the specifications provided in the JSON format below.
Each key is the Request type, and the value describes the Sub Request types that are possible.
Assign the Request type and Sub Request type based on the email body and the extracted attachment data provided.
An email can match multiple request types and sub request types; add a confidence score in percentage for each of these in the output.`

const instructions = `Knowledge base ends here.

You need to output the following:
1. The primary intent of the email body, as key "primary_intent".
2. The important details extracted from the attachments and the email body (deal name, deal amount, deal date, sender, account numbers, parties involved, whatever is relevant) as key "extracted_fields": a single flat object with no nesting and only string values.
3. A brief summary of the email body and the attachments, as key "summary".
4. Request types and Sub Request types per the Knowledge Base, as key "request_types": an array of objects with keys request_type, confidence_score, sub_request_type, sub_confidence_score. Confidence scores are percentages.

All of the above needs to be a single well structured JSON object inside a markdown json code block with triple backticks.
Your output should be only the JSON and nothing else.`

// Build renders the full classification prompt from the parsed email and
// taxonomy. The body is assumed to be truncated/sanitized by the caller.
func Build(email *core.ParsedEmail, taxonomy core.Taxonomy) (string, error) {
	kb, err := json.MarshalIndent(taxonomy, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize taxonomy: %w", err)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.Write(kb)
	b.WriteString("\n\n")
	b.WriteString(instructions)
	b.WriteString("\n\nHere are your inputs:\nEmail Body: ")
	b.WriteString(email.Body)
	b.WriteString("\nAttachment Data: ")
	b.WriteString(AttachmentText(email.Attachments))

	return b.String(), nil
}

// AttachmentText concatenates extracted attachment texts, each labeled with
// its position and filename so the model can reference individual files.
func AttachmentText(attachments []core.Attachment) string {
	if len(attachments) == 0 {
		return "No attachments."
	}

	parts := make([]string, 0, len(attachments))
	for i, att := range attachments {
		text := att.ExtractedText
		if text == "" {
			text = "No text extracted."
		}
		parts = append(parts, fmt.Sprintf("Attachment %d (%s):\n%s", i+1, att.Filename, text))
	}
	return strings.Join(parts, "\n\n")
}
