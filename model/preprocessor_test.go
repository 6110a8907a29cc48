package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testPreprocessor() *Preprocessor {
	return &Preprocessor{
		Numeric: []NumericColumn{
			{Name: "Age", Mean: 50, Scale: 10},
			{Name: "Heart_Rate", Mean: 80, Scale: 20},
		},
		Categorical: []CategoricalColumn{
			{Name: "Gender", Values: []string{"Male", "Female"}},
		},
	}
}

func TestLoadPreprocessor(t *testing.T) {
	filePath := writeArtifact(t, "preprocessor.json", `{
		"numeric": [{"name": "Age", "mean": 50, "scale": 10}],
		"categorical": [{"name": "Gender", "values": ["Male", "Female"]}]
	}`)

	p, err := LoadPreprocessor(filePath)
	require.NoError(t, err)
	require.Equal(t, 3, p.OutputLen())
}

func TestLoadPreprocessorZeroScale(t *testing.T) {
	filePath := writeArtifact(t, "preprocessor.json", `{
		"numeric": [{"name": "Age", "mean": 50, "scale": 0}],
		"categorical": []
	}`)

	_, err := LoadPreprocessor(filePath)
	require.Error(t, err)
}

func TestTransform(t *testing.T) {
	p := testPreprocessor()

	out, err := p.Transform(FeatureRecord{
		Numeric:     map[string]float64{"Age": 60, "Heart_Rate": 80},
		Categorical: map[string]string{"Gender": "Female"},
	})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 0, 1}, out)
}

func TestTransformMissingNumeric(t *testing.T) {
	p := testPreprocessor()

	_, err := p.Transform(FeatureRecord{
		Numeric:     map[string]float64{"Age": 60},
		Categorical: map[string]string{"Gender": "Male"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Heart_Rate")
}

func TestTransformMissingCategorical(t *testing.T) {
	p := testPreprocessor()

	_, err := p.Transform(FeatureRecord{
		Numeric:     map[string]float64{"Age": 60, "Heart_Rate": 80},
		Categorical: map[string]string{},
	})
	require.Error(t, err)
}

func TestTransformUnknownCategoricalValue(t *testing.T) {
	p := testPreprocessor()

	_, err := p.Transform(FeatureRecord{
		Numeric:     map[string]float64{"Age": 60, "Heart_Rate": 80},
		Categorical: map[string]string{"Gender": "Other"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Gender")
}

func TestOutputLen(t *testing.T) {
	p := testPreprocessor()
	require.Equal(t, 4, p.OutputLen())
}
