package model

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
)

// FeatureRecord is a single request's features keyed by training-time
// column name, before scaling and encoding.
type FeatureRecord struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

type NumericColumn struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

type CategoricalColumn struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Preprocessor mirrors the fitted column transformer the model was
// trained with: standard scaling for numeric columns followed by
// one-hot encoding for categorical columns. Column order is part of
// the model contract.
type Preprocessor struct {
	Numeric     []NumericColumn     `json:"numeric"`
	Categorical []CategoricalColumn `json:"categorical"`
}

func LoadPreprocessor(path string) (*Preprocessor, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Preprocessor
	if err := json.Unmarshal(buf, &p); err != nil {
		return nil, err
	}
	for _, col := range p.Numeric {
		if col.Scale == 0 {
			return nil, fmt.Errorf("numeric column %q has zero scale", col.Name)
		}
	}
	return &p, nil
}

// OutputLen is the transformed vector length.
func (p *Preprocessor) OutputLen() int {
	n := len(p.Numeric)
	for _, col := range p.Categorical {
		n += len(col.Values)
	}
	return n
}

// Transform scales and encodes a feature record into the vector the
// model expects. A missing column or an unseen categorical value is an
// error; it is never papered over with a default.
func (p *Preprocessor) Transform(rec FeatureRecord) ([]float64, error) {
	out := make([]float64, 0, p.OutputLen())

	for _, col := range p.Numeric {
		value, ok := rec.Numeric[col.Name]
		if !ok {
			return nil, fmt.Errorf("missing numeric column %q", col.Name)
		}
		out = append(out, (value-col.Mean)/col.Scale)
	}

	for _, col := range p.Categorical {
		value, ok := rec.Categorical[col.Name]
		if !ok {
			return nil, fmt.Errorf("missing categorical column %q", col.Name)
		}
		matched := false
		for _, known := range col.Values {
			if known == value {
				out = append(out, 1.0)
				matched = true
			} else {
				out = append(out, 0.0)
			}
		}
		if !matched {
			return nil, fmt.Errorf("unknown value %q for categorical column %q", value, col.Name)
		}
	}

	return out, nil
}
