package triage

import (
	"strings"

	"parshealth.com/triage/types"
)

// Clinical flag thresholds for the model-path rationale. These are
// looser than the guardrails: they explain an elevated score, they do
// not force one.
const (
	elevatedHeartRate = 100
	lowSystolicBP     = 90
	lowO2Saturation   = 94
	reducedGCS        = 12
	feverTemperature  = 39.0
	significantPain   = 7
)

func buildRationale(v types.PatientVitals) string {
	var details []string
	if v.HeartRate > elevatedHeartRate {
		details = append(details, "Elevated heart rate")
	}
	if v.SystolicBP < lowSystolicBP {
		details = append(details, "Low blood pressure")
	}
	if v.O2Saturation < lowO2Saturation {
		details = append(details, "Low oxygen saturation")
	}
	if v.GCSScore <= reducedGCS {
		details = append(details, "Reduced consciousness (GCS <= 12)")
	}
	if v.Temperature > feverTemperature {
		details = append(details, "Fever detected")
	}
	if v.PainScore >= significantPain {
		details = append(details, "Significant pain reported")
	}
	if len(details) == 0 {
		details = append(details, "Vitals within acceptable range")
	}
	return strings.Join(details, ". ") + "."
}

func buildOverrideRationale(reasons []string) string {
	return overridePrefix + strings.Join(reasons, ". ") + "."
}
