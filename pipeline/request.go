package pipeline

import "parshealth.com/triage/types"

type Request struct {
	Tid    string              `json:"tid"`
	Vitals types.PatientVitals `json:"vitals"`
}

type Result struct {
	Assessment types.RiskAssessment `json:"assessment"`
	Referral   types.Referral       `json:"referral"`
	Err        error                `json:"-"`
}

// CheckInRequest is the simplified self check-in form for
// non-emergency walk-ins. It never reaches the vitals model.
type CheckInRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Symptoms string `json:"symptoms"`
}
