package triage

import (
	"parshealth.com/triage/model"
	"parshealth.com/triage/types"
)

// defaultBMI substitutes for the training-time BMI column; the intake
// form collects neither height nor weight.
const defaultBMI = 25.0

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// buildFeatureRecord maps an intake record onto the training-time
// column schema: Temperature becomes Temp, the comorbidity flags take
// their History_ prefixes and 0/1 encoding, and the two columns the
// intake form never carries ("Unnamed: 0" and BMI) get the values the
// preprocessor was fitted with.
func buildFeatureRecord(v types.PatientVitals) model.FeatureRecord {
	return model.FeatureRecord{
		Numeric: map[string]float64{
			"Unnamed: 0":            0,
			"Age":                   float64(v.Age),
			"Heart_Rate":            float64(v.HeartRate),
			"Systolic_BP":           float64(v.SystolicBP),
			"Diastolic_BP":          float64(v.DiastolicBP),
			"O2_Saturation":         v.O2Saturation,
			"Temp":                  v.Temperature,
			"Respiratory_Rate":      float64(v.RespiratoryRate),
			"Pain_Score":            float64(v.PainScore),
			"GCS_Score":             float64(v.GCSScore),
			"BMI":                   defaultBMI,
			"History_Diabetes":      boolToFloat(v.Diabetes),
			"History_Hypertension":  boolToFloat(v.Hypertension),
			"History_Heart_Disease": boolToFloat(v.HeartDisease),
		},
		Categorical: map[string]string{
			"Gender":       v.Gender,
			"Arrival_Mode": v.ArrivalMode,
		},
	}
}
