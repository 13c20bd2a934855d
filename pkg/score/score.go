package score

import (
	"math"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/routelab/routerisk/pkg/feature"
)

const (
	// FallbackScore is assigned to a route that cannot be scored, so one
	// bad route never fails the rest of the batch.
	FallbackScore = 0.5

	// scoreDivisor inflates the aggregate denominator by a factor of 10.
	// Inherited from the shipped model's calling convention; changing it
	// would silently change the output contract.
	scoreDivisor = 10

	// Scores are fixed to 4 decimal places before emission so repeated
	// serialization cannot drift the printed value.
	precision = 4
)

// Classifier labels one standardized feature vector.
type Classifier interface {
	NumFeatures() int
	Predict(features []float64) (int, error)
}

// Scorer runs the scoring pipeline: decode, featurize, standardize,
// classify, aggregate. Both artifacts are read-only for the lifetime of
// the run.
type Scorer struct {
	Classifier Classifier
	Scaler     *feature.Scaler

	// Fallback is the score assigned to routes that fail.
	Fallback float64

	// Now supplies the invocation timestamp shared by every point in a
	// run. Overridable for deterministic tests.
	Now func() time.Time
}

// New validates that both artifacts agree with the runtime feature schema
// before anything is scored.
func New(c Classifier, s *feature.Scaler) (*Scorer, error) {
	if c == nil {
		return nil, errors.New("classifier required")
	}
	if s == nil {
		return nil, errors.New("scaler required")
	}
	if c.NumFeatures() != feature.NumColumns {
		return nil, errors.Wrapf(ErrSchema, "model expects %d features, runtime schema has %d",
			c.NumFeatures(), feature.NumColumns)
	}
	if len(s.Means) != feature.NumColumns || len(s.Scales) != feature.NumColumns {
		return nil, errors.Wrapf(ErrSchema, "scaler fitted on %d columns, runtime schema has %d",
			len(s.Means), feature.NumColumns)
	}
	return &Scorer{
		Classifier: c,
		Scaler:     s,
		Fallback:   FallbackScore,
		Now:        time.Now,
	}, nil
}

// RouteScore is the outcome for one route. Fallback marks a route that
// could not be scored and received the fallback value instead.
type RouteScore struct {
	Score    float64
	Points   int
	Fallback bool
}

// ScoreRoutes scores every route in input order. A route-level failure is
// logged to stderr and substituted with the fallback score.
func (s *Scorer) ScoreRoutes(routes []RawRoute) []RouteScore {
	now := s.Now()
	out := make([]RouteScore, len(routes))
	for i, r := range routes {
		rs, err := s.scoreRoute(r, now)
		if err != nil {
			log.WithFields(log.Fields{
				"route": i,
				"err":   err,
			}).Warn("route not scored, using fallback")
			out[i] = RouteScore{Score: s.Fallback, Fallback: true}
			continue
		}
		out[i] = rs
	}
	return out
}

func (s *Scorer) scoreRoute(r RawRoute, now time.Time) (RouteScore, error) {
	pts, err := r.Points()
	if err != nil {
		return RouteScore{}, err
	}
	if len(pts) == 0 {
		return RouteScore{}, errors.WithStack(ErrEmptyRoute)
	}

	positives := 0
	for _, p := range pts {
		scaled, err := s.Scaler.Transform(feature.Vector(p.Lat, p.Lng, now))
		if err != nil {
			return RouteScore{}, errors.Wrap(ErrSchema, err.Error())
		}
		label, err := s.Classifier.Predict(scaled)
		if err != nil {
			return RouteScore{}, err
		}
		positives += label
	}

	raw := float64(positives) / float64(len(pts)*scoreDivisor)
	return RouteScore{Score: Round(raw), Points: len(pts)}, nil
}

// Round fixes a score to the output precision.
func Round(v float64) float64 {
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}
