package model

import (
	"io/ioutil"
	"math"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, name string, content string) string {
	t.Helper()
	filePath := path.Join(t.TempDir(), name)
	require.NoError(t, ioutil.WriteFile(filePath, []byte(content), 0644))
	return filePath
}

func TestLoadModel(t *testing.T) {
	filePath := writeArtifact(t, "model.json", `{
		"bias": -1.5,
		"weights": [0.5, -0.25, 1.0],
		"features_len": 3
	}`)

	m, err := Load(filePath)
	require.NoError(t, err)
	require.Equal(t, -1.5, m.Bias)
	require.Len(t, m.W, 3)
}

func TestLoadModelWeightsMismatch(t *testing.T) {
	filePath := writeArtifact(t, "model.json", `{
		"bias": 0,
		"weights": [0.5],
		"features_len": 3
	}`)

	_, err := Load(filePath)
	require.Error(t, err)
}

func TestLoadModelMissingFile(t *testing.T) {
	_, err := Load(path.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestPredict(t *testing.T) {
	m := &Model{Bias: 0, W: []float64{1, 1}, FeaturesLen: 2}

	score, err := m.Predict([]float64{0, 0})
	require.NoError(t, err)
	require.InDelta(t, 0.5, score, 1e-9)

	score, err = m.Predict([]float64{10, 10})
	require.NoError(t, err)
	require.Greater(t, score, 0.99)

	score, err = m.Predict([]float64{-10, -10})
	require.NoError(t, err)
	require.Less(t, score, 0.01)
}

func TestPredictScoreInUnitInterval(t *testing.T) {
	m := &Model{Bias: 3.7, W: []float64{-2.1, 0.4, 8.0}, FeaturesLen: 3}
	for _, x := range [][]float64{
		{0, 0, 0},
		{100, -50, 3},
		{-1000, 1000, 0.5},
	} {
		score, err := m.Predict(x)
		require.NoError(t, err)
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 1.0)
		require.False(t, math.IsNaN(score))
	}
}

func TestPredictLengthMismatch(t *testing.T) {
	m := &Model{Bias: 0, W: []float64{1, 1}, FeaturesLen: 2}
	_, err := m.Predict([]float64{1})
	require.Error(t, err)
}
