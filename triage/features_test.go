package triage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildFeatureRecord(t *testing.T) {
	vitals := stableVitals()
	vitals.Temperature = 38.2
	vitals.Diabetes = true
	vitals.HeartDisease = true

	record := buildFeatureRecord(vitals)

	require.Equal(t, 38.2, record.Numeric["Temp"])
	require.Equal(t, 1.0, record.Numeric["History_Diabetes"])
	require.Equal(t, 0.0, record.Numeric["History_Hypertension"])
	require.Equal(t, 1.0, record.Numeric["History_Heart_Disease"])
	require.Equal(t, 0.0, record.Numeric["Unnamed: 0"])
	require.Equal(t, defaultBMI, record.Numeric["BMI"])
	require.Equal(t, "Male", record.Categorical["Gender"])
	require.Equal(t, "Walk-in", record.Categorical["Arrival_Mode"])
	require.Len(t, record.Numeric, 14)
	require.Len(t, record.Categorical, 2)
}
