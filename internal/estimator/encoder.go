package estimator

import (
	"encoding/json"
	"fmt"
)

// LabelEncoder maps integer class codes back to the condition strings the
// classifier was trained on. Code i decodes to Classes[i].
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// DecodeLabelEncoder parses a serialized label encoder.
func DecodeLabelEncoder(data []byte) (*LabelEncoder, error) {
	var le LabelEncoder
	if err := json.Unmarshal(data, &le); err != nil {
		return nil, fmt.Errorf("decode label encoder: %w", err)
	}
	if len(le.Classes) == 0 {
		return nil, fmt.Errorf("decode label encoder: no classes")
	}
	return &le, nil
}

// Decode is the inverse transform. Codes outside the fitted range fail the
// whole batch.
func (le *LabelEncoder) Decode(codes []int) ([]string, error) {
	out := make([]string, len(codes))
	for i, code := range codes {
		if code < 0 || code >= len(le.Classes) {
			return nil, fmt.Errorf("y contains previously unseen labels: %d", code)
		}
		out[i] = le.Classes[code]
	}
	return out, nil
}
