package feature

import (
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const scalerFileMode = 0600

// Scaler holds fitted standardization parameters: subtract Means, divide
// by Scales, in Columns order. Parameters are fitted once from the
// reference table and persisted, so the scoring path never needs the
// reference data itself.
type Scaler struct {
	Columns []string  `yaml:"columns"`
	Means   []float64 `yaml:"means"`
	Scales  []float64 `yaml:"scales"`
	Rows    int       `yaml:"rows"`
	Fitted  time.Time `yaml:"fitted"`
}

// Fit computes per-column mean and population standard deviation over the
// reference rows. A zero-variance column gets scale 1 so standardization
// is a no-op for it, matching the standardizer the model was fitted with.
func Fit(rows [][]float64, cols []string) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, errors.New("no reference rows to fit")
	}
	n := len(cols)
	if n == 0 {
		return nil, errors.New("no columns to fit")
	}
	for i, r := range rows {
		if len(r) != n {
			return nil, errors.Errorf("reference row %d has %d columns, want %d", i, len(r), n)
		}
	}

	means := make([]float64, n)
	for _, r := range rows {
		for j, v := range r {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(len(rows))
	}

	scales := make([]float64, n)
	for _, r := range rows {
		for j, v := range r {
			d := v - means[j]
			scales[j] += d * d
		}
	}
	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / float64(len(rows)))
		if scales[j] == 0 {
			scales[j] = 1
		}
	}

	return &Scaler{
		Columns: append([]string(nil), cols...),
		Means:   means,
		Scales:  scales,
		Rows:    len(rows),
		Fitted:  time.Now().UTC(),
	}, nil
}

// Transform standardizes one feature vector.
func (s *Scaler) Transform(v []float64) ([]float64, error) {
	if len(v) != len(s.Means) {
		return nil, errors.Errorf("vector has %d features, scaler fitted on %d", len(v), len(s.Means))
	}
	out := make([]float64, len(v))
	for i := range v {
		out[i] = (v[i] - s.Means[i]) / s.Scales[i]
	}
	return out, nil
}

// Save persists the fitted parameters.
func (s *Scaler) Save(path string) error {
	if path == "" {
		return errors.New("scaler path required")
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to marshal scaler")
	}
	if err := os.WriteFile(path, b, scalerFileMode); err != nil {
		return errors.Wrapf(err, "failed to write scaler file: %s", path)
	}
	return nil
}

// Load reads previously fitted parameters.
func Load(path string) (*Scaler, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading scaler file: %s", path)
	}
	var s Scaler
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling scaler file: %s", path)
	}
	if len(s.Means) != len(s.Columns) || len(s.Scales) != len(s.Columns) {
		return nil, errors.Errorf("inconsistent scaler file: %s", path)
	}
	return &s, nil
}
