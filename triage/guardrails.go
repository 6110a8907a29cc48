package triage

import (
	"parshealth.com/triage/types"
)

// Critical thresholds. Any hit forces a HIGH classification before the
// model is consulted, so a model regression can never mask a life
// threatening presentation.
const (
	CriticalTachycardiaHR = 180
	CriticalBradycardiaHR = 40
	ShockSystolicBP       = 70
	CriticalHypoxiaO2     = 85
	ComaGCS               = 8

	OverrideScore  = 0.99
	overridePrefix = "Critical vitals detected (SAFETY OVERRIDE): "
)

// EvaluateGuardrails returns every triggered critical reason, in
// priority order. An empty slice means no override fired and the model
// stage may run.
func EvaluateGuardrails(v types.PatientVitals) []string {
	var reasons []string

	if v.HeartRate > CriticalTachycardiaHR {
		reasons = append(reasons, "Critical Tachycardia (>180 BPM)")
	} else if v.HeartRate < CriticalBradycardiaHR {
		reasons = append(reasons, "Critical Bradycardia (<40 BPM)")
	}
	if v.SystolicBP < ShockSystolicBP {
		reasons = append(reasons, "Severe Hypotension / Shock (<70 mmHg)")
	}
	if v.O2Saturation < CriticalHypoxiaO2 {
		reasons = append(reasons, "Critical Hypoxia (<85%)")
	}
	if v.GCSScore <= ComaGCS {
		reasons = append(reasons, "Unconscious / Coma (GCS <= 8)")
	}

	return reasons
}
