package extraction

import (
	"testing"
)

func TestExtractResultFencedJSONBlock(t *testing.T) {
	raw := "Here is my analysis of the email.\n" +
		"```json\n" +
		`{
  "primary_intent": "Payoff request",
  "extracted_fields": {"loan_number": "1234", "amount": 5000.25, "expedited": true},
  "summary": "Borrower requests payoff amount.",
  "request_types": [
    {"request_type": "Money Movement - Inbound", "confidence_score": 88, "sub_request_type": "Principal", "sub_confidence_score": "75%"}
  ]
}` + "\n```\nLet me know if you need anything else."

	result := ExtractResult(raw)
	if result.Empty() {
		t.Fatal("expected a populated result")
	}
	if result.PrimaryIntent != "Payoff request" {
		t.Errorf("primary intent = %q", result.PrimaryIntent)
	}
	if result.Summary != "Borrower requests payoff amount." {
		t.Errorf("summary = %q", result.Summary)
	}
	if len(result.RequestTypes) != 1 {
		t.Fatalf("request types = %d, want 1", len(result.RequestTypes))
	}
	rt := result.RequestTypes[0]
	if rt.ConfidenceScore != 88 {
		t.Errorf("confidence = %v", rt.ConfidenceScore)
	}
	if rt.SubConfidenceScore != 75 {
		t.Errorf("sub confidence = %v", rt.SubConfidenceScore)
	}
	if result.ExtractedFields["loan_number"] != "1234" {
		t.Errorf("loan_number = %q", result.ExtractedFields["loan_number"])
	}
	if result.ExtractedFields["amount"] != "5000.25" {
		t.Errorf("amount = %q", result.ExtractedFields["amount"])
	}
	if result.ExtractedFields["expedited"] != "true" {
		t.Errorf("expedited = %q", result.ExtractedFields["expedited"])
	}
}

func TestExtractResultBareFence(t *testing.T) {
	raw := "```\n{\"primary_intent\": \"Inquiry\"}\n```"
	result := ExtractResult(raw)
	if result.PrimaryIntent != "Inquiry" {
		t.Errorf("primary intent = %q", result.PrimaryIntent)
	}
}

func TestExtractResultNoFence(t *testing.T) {
	result := ExtractResult("The email appears to be a payoff request.")
	if !result.Empty() {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestExtractResultUnterminatedFence(t *testing.T) {
	result := ExtractResult("```json\n{\"primary_intent\": \"Inquiry\"}")
	if !result.Empty() {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestExtractResultMalformedJSON(t *testing.T) {
	result := ExtractResult("```json\n{not valid json at all\n```")
	if !result.Empty() {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestExtractResultCapitalizedSummaryKey(t *testing.T) {
	raw := "```json\n{\"primary_intent\": \"Inquiry\", \"Summary\": \"An inquiry.\"}\n```"
	result := ExtractResult(raw)
	if result.Summary != "An inquiry." {
		t.Errorf("summary = %q", result.Summary)
	}
}

func TestExtractResultExtractedFieldsFallbackKey(t *testing.T) {
	raw := "```json\n" +
		`{"primary_intent": "Inquiry", "fields": {"loan_number": "9876"}}` +
		"\n```"
	result := ExtractResult(raw)
	if result.ExtractedFields["loan_number"] != "9876" {
		t.Errorf("fallback scan missed fields: %v", result.ExtractedFields)
	}
}

func TestExtractResultFallbackScanIsDeterministic(t *testing.T) {
	raw := "```json\n" +
		`{"primary_intent": "Inquiry", "other_fields": {"loan_number": "9999"}, "details": {"loan_number": "1111"}}` +
		"\n```"

	for i := 0; i < 20; i++ {
		result := ExtractResult(raw)
		if result.ExtractedFields["loan_number"] != "1111" {
			t.Fatalf("run %d picked %v, want the first candidate in key order", i, result.ExtractedFields)
		}
	}
}

func TestExtractResultNestedValuesSkipped(t *testing.T) {
	raw := "```json\n" +
		`{"primary_intent": "Inquiry", "extracted_fields": {"loan_number": "1234", "nested": {"a": 1}, "list": [1, 2]}}` +
		"\n```"
	result := ExtractResult(raw)
	if result.ExtractedFields["loan_number"] != "1234" {
		t.Errorf("loan_number = %q", result.ExtractedFields["loan_number"])
	}
	if _, ok := result.ExtractedFields["nested"]; ok {
		t.Error("nested object coerced into flat fields")
	}
	if _, ok := result.ExtractedFields["list"]; ok {
		t.Error("array coerced into flat fields")
	}
}
