package score

import "github.com/pkg/errors"

var (
	// ErrDecode marks a payload that is not a valid routes document.
	ErrDecode = errors.New("malformed routes payload")

	// ErrField marks a point with a missing or non-numeric lat/lng.
	ErrField = errors.New("invalid point field")

	// ErrSchema marks a feature count mismatch between the runtime schema
	// and a fitted artifact.
	ErrSchema = errors.New("feature schema mismatch")

	// ErrEmptyRoute marks a route with zero points, which has no defined
	// score.
	ErrEmptyRoute = errors.New("route has no points")

	// ErrArtifactLoad marks a missing or corrupt model/scaler artifact.
	ErrArtifactLoad = errors.New("failed to load scoring artifact")
)
