package types

import (
	"fmt"
)

// PatientVitals is the inbound triage record. Field names follow the
// intake form and the training data columns derived from it.
type PatientVitals struct {
	Age             int     `json:"Age"`
	Gender          string  `json:"Gender"`
	HeartRate       int     `json:"Heart_Rate"`
	SystolicBP      int     `json:"Systolic_BP"`
	DiastolicBP     int     `json:"Diastolic_BP"`
	O2Saturation    float64 `json:"O2_Saturation"`
	Temperature     float64 `json:"Temperature"`
	RespiratoryRate int     `json:"Respiratory_Rate"`
	PainScore       int     `json:"Pain_Score"`
	GCSScore        int     `json:"GCS_Score"`
	ArrivalMode     string  `json:"Arrival_Mode"`
	Diabetes        bool    `json:"Diabetes"`
	Hypertension    bool    `json:"Hypertension"`
	HeartDisease    bool    `json:"Heart_Disease"`
	ChiefComplaint  string  `json:"Chief_Complaint,omitempty"`
}

// ApplyDefaults fills the optional intake fields with the values the
// form assumes when they are left out: walk-in arrival and a fully
// conscious GCS. The remaining optional fields (pain score, the
// comorbidity flags) default to their zero values. Callers apply this
// before Validate.
func (v *PatientVitals) ApplyDefaults() {
	if v.ArrivalMode == "" {
		v.ArrivalMode = "Walk-in"
	}
	if v.GCSScore == 0 {
		v.GCSScore = 15
	}
}

// Validate enforces the ranges the classifier requires. The API layer
// rejects records before they ever reach the model.
func (v PatientVitals) Validate() error {
	if v.Age <= 0 || v.Age > 130 {
		return fmt.Errorf("Age out of range: %d", v.Age)
	}
	if v.Gender == "" {
		return fmt.Errorf("Gender is required")
	}
	if v.HeartRate <= 0 || v.HeartRate > 350 {
		return fmt.Errorf("Heart_Rate out of range: %d", v.HeartRate)
	}
	if v.SystolicBP <= 0 || v.SystolicBP > 350 {
		return fmt.Errorf("Systolic_BP out of range: %d", v.SystolicBP)
	}
	if v.DiastolicBP <= 0 || v.DiastolicBP > 250 {
		return fmt.Errorf("Diastolic_BP out of range: %d", v.DiastolicBP)
	}
	if v.O2Saturation <= 0 || v.O2Saturation > 100 {
		return fmt.Errorf("O2_Saturation out of range: %.1f", v.O2Saturation)
	}
	if v.Temperature < 25 || v.Temperature > 45 {
		return fmt.Errorf("Temperature out of range: %.1f", v.Temperature)
	}
	if v.RespiratoryRate <= 0 || v.RespiratoryRate > 90 {
		return fmt.Errorf("Respiratory_Rate out of range: %d", v.RespiratoryRate)
	}
	if v.PainScore < 0 || v.PainScore > 10 {
		return fmt.Errorf("Pain_Score out of range: %d", v.PainScore)
	}
	if v.GCSScore < 3 || v.GCSScore > 15 {
		return fmt.Errorf("GCS_Score out of range: %d", v.GCSScore)
	}
	return nil
}
