package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Confidence is a percentage-like score from the model. The model emits it
// as a bare number ("confidence_score": 85), a numeric string ("85"), or a
// percent string ("85%"); the ambiguity is resolved here at the JSON
// boundary and a plain float64 is carried everywhere else.
type Confidence float64

// Band thresholds, in percent.
const (
	highConfidence   = 80
	mediumConfidence = 50
)

// UnmarshalJSON accepts a JSON number or a string with an optional trailing
// percent sign.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*c = Confidence(num)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("confidence score is neither number nor string: %s", data)
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		*c = 0
		return nil
	}
	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid confidence score %q: %w", s, err)
	}
	*c = Confidence(num)
	return nil
}

func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(c))
}

// Band buckets a score into "high", "medium" or "low".
func (c Confidence) Band() string {
	switch {
	case float64(c) >= highConfidence:
		return "high"
	case float64(c) >= mediumConfidence:
		return "medium"
	default:
		return "low"
	}
}
