package core

import (
	"encoding/json"
	"testing"
)

func TestConfidenceUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"integer", `85`, 85},
		{"float", `85.0`, 85},
		{"percent string", `"85%"`, 85},
		{"bare string", `"85"`, 85},
		{"padded percent", `" 92.5 % "`, 92.5},
		{"empty string", `""`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Confidence
			if err := json.Unmarshal([]byte(tc.in), &c); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if float64(c) != tc.want {
				t.Errorf("got %v, want %v", float64(c), tc.want)
			}
		})
	}
}

func TestConfidenceUnmarshalRejectsGarbage(t *testing.T) {
	var c Confidence
	if err := json.Unmarshal([]byte(`"very confident"`), &c); err == nil {
		t.Error("expected error for non-numeric string")
	}
	if err := json.Unmarshal([]byte(`[85]`), &c); err == nil {
		t.Error("expected error for array")
	}
}

func TestConfidenceBand(t *testing.T) {
	// The three spellings of the same score must land in the same band.
	for _, in := range []string{`85`, `"85%"`, `85.0`} {
		var c Confidence
		if err := json.Unmarshal([]byte(in), &c); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if c.Band() != "high" {
			t.Errorf("%s: got band %q, want high", in, c.Band())
		}
	}

	if got := Confidence(80).Band(); got != "high" {
		t.Errorf("80 should be high, got %q", got)
	}
	if got := Confidence(79.9).Band(); got != "medium" {
		t.Errorf("79.9 should be medium, got %q", got)
	}
	if got := Confidence(49).Band(); got != "low" {
		t.Errorf("49 should be low, got %q", got)
	}
}

func TestRequestTypeScoreDecoding(t *testing.T) {
	payload := `{"request_type":"Fee Payment","confidence_score":"87%","sub_request_type":"Ongoing Fee","sub_confidence_score":74}`

	var score RequestTypeScore
	if err := json.Unmarshal([]byte(payload), &score); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if score.RequestType != "Fee Payment" {
		t.Errorf("request_type = %q", score.RequestType)
	}
	if float64(score.ConfidenceScore) != 87 {
		t.Errorf("confidence_score = %v", score.ConfidenceScore)
	}
	if float64(score.SubConfidenceScore) != 74 {
		t.Errorf("sub_confidence_score = %v", score.SubConfidenceScore)
	}
}
