// Package extraction turns the model's free-text reply into a typed
// ClassificationResult. The untyped blob stops here: callers receive either
// a well-formed result or an empty one, never raw model output.
package extraction

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/mikey/email-triage/internal/core"
)

// Known result keys. Anything else in the model's object is a candidate for
// the extracted-fields fallback scan.
var resultKeys = map[string]bool{
	"primary_intent":   true,
	"extracted_fields": true,
	"summary":          true,
	"Summary":          true,
	"request_types":    true,
}

// ExtractResult scans raw model output for a fenced ```json block and
// decodes it. A missing block, or a block that does not decode, yields an
// empty result rather than an error; callers detect that with
// ClassificationResult.Empty and treat it as a service-level failure.
func ExtractResult(raw string) *core.ClassificationResult {
	payload, ok := fencedBlock(raw)
	if !ok {
		return &core.ClassificationResult{}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &obj); err != nil {
		return &core.ClassificationResult{}
	}

	result := &core.ClassificationResult{}
	if v, ok := obj["primary_intent"]; ok {
		json.Unmarshal(v, &result.PrimaryIntent)
	}
	if v, ok := obj["summary"]; ok {
		json.Unmarshal(v, &result.Summary)
	} else if v, ok := obj["Summary"]; ok {
		json.Unmarshal(v, &result.Summary)
	}
	if v, ok := obj["request_types"]; ok {
		json.Unmarshal(v, &result.RequestTypes)
	}

	if v, ok := obj["extracted_fields"]; ok {
		result.ExtractedFields = flatFields(v)
	} else {
		// Models occasionally rename the key; fall back to the first value,
		// in key order, that decodes as a flat object. Sorting keeps the
		// pick stable across runs.
		keys := make([]string, 0, len(obj))
		for key := range obj {
			if resultKeys[key] {
				continue
			}
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if fields := flatFields(obj[key]); len(fields) > 0 {
				result.ExtractedFields = fields
				break
			}
		}
	}

	return result
}

// fencedBlock returns the contents of the first ```json (or bare ```) fence
// in the text.
func fencedBlock(raw string) (string, bool) {
	start := strings.Index(raw, "```json")
	offset := len("```json")
	if start == -1 {
		start = strings.Index(raw, "```")
		offset = len("```")
	}
	if start == -1 {
		return "", false
	}

	rest := raw[start+offset:]
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// flatFields decodes a JSON value into a flat string map. Scalar values are
// coerced to strings; nested objects and arrays are skipped since the
// contract is a single flat object.
func flatFields(raw json.RawMessage) map[string]string {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil
	}

	fields := make(map[string]string, len(generic))
	for key, v := range generic {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			fields[key] = s
			continue
		}
		var num json.Number
		if err := json.Unmarshal(v, &num); err == nil {
			fields[key] = num.String()
			continue
		}
		var b bool
		if err := json.Unmarshal(v, &b); err == nil {
			if b {
				fields[key] = "true"
			} else {
				fields[key] = "false"
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
