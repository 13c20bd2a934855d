package model

import (
	"github.com/dmitryikh/leaves"
	"github.com/pkg/errors"
)

// A probability above this is a positive label.
const positiveThreshold = 0.5

// XGBClassifier wraps a pre-trained gradient-boosted tree ensemble for
// binary classification. The on-disk artifact format is owned by the
// training pipeline and opaque here.
type XGBClassifier struct {
	ensemble *leaves.Ensemble
}

// Load reads the serialized ensemble from disk. The output transformation
// stored with the model (logistic for binary objectives) is loaded too, so
// predictions come back as probabilities rather than raw margins.
func Load(path string) (*XGBClassifier, error) {
	if path == "" {
		return nil, errors.New("model path required")
	}
	e, err := leaves.XGEnsembleFromFile(path, true)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load model: %s", path)
	}
	return &XGBClassifier{ensemble: e}, nil
}

// Name returns the ensemble type reported by the artifact.
func (c *XGBClassifier) Name() string {
	return c.ensemble.Name()
}

// NumFeatures returns the feature count the model was trained on.
func (c *XGBClassifier) NumFeatures() int {
	return c.ensemble.NFeatures()
}

// Predict maps one standardized feature vector to a 0/1 label.
func (c *XGBClassifier) Predict(features []float64) (int, error) {
	if len(features) != c.ensemble.NFeatures() {
		return 0, errors.Errorf("vector has %d features, model expects %d", len(features), c.ensemble.NFeatures())
	}
	if c.ensemble.PredictSingle(features, 0) > positiveThreshold {
		return 1, nil
	}
	return 0, nil
}
