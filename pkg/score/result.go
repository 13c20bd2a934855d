package score

import (
	"encoding/json"
	"io"
)

// WriteResult emits the batch outcome: a bare number for a single route
// (legacy calling convention) or an array of numbers in input order.
func WriteResult(w io.Writer, scores []RouteScore) error {
	if len(scores) == 1 {
		return json.NewEncoder(w).Encode(scores[0].Score)
	}
	vals := make([]float64, len(scores))
	for i, s := range scores {
		vals[i] = s.Score
	}
	return json.NewEncoder(w).Encode(vals)
}

// WriteError emits the top-level failure object. Anything beyond the
// message is diagnostic and belongs on stderr, not here.
func WriteError(w io.Writer, err error) error {
	return json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
