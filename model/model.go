package model

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math"
)

// Model is a fitted logistic regression over the preprocessed vitals
// feature vector. Weights are exported from the training pipeline as a
// JSON artifact.
type Model struct {
	Bias        float64   `json:"bias"`
	W           []float64 `json:"weights"`
	FeaturesLen int       `json:"features_len"`
}

func Load(path string) (*Model, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Model
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, err
	}
	if len(m.W) != m.FeaturesLen {
		return nil, fmt.Errorf("model weights length %d does not match features_len %d", len(m.W), m.FeaturesLen)
	}
	return &m, nil
}

// Predict returns a risk score in [0,1].
func (model *Model) Predict(x []float64) (float64, error) {
	if len(x) != model.FeaturesLen {
		return 0, fmt.Errorf("feature vector length %d does not match features_len %d", len(x), model.FeaturesLen)
	}

	z := model.Bias
	for i, w := range model.W {
		z += w * x[i]
	}
	return 1.0 / (1.0 + math.Exp(-z)), nil
}
