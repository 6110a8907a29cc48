package tasks

import (
	"parshealth.com/triage/redis"
)

const TriageDB redis.DB = 0

type TaskStatus string

const (
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

// TriageTask is the redis record behind one queued triage request.
// One task per request; there is no job/chunk hierarchy.
type TriageTask struct {
	PatientID      string     `json:"patient_id"`
	VitalsFileKey  string     `json:"vitals_file_key"`
	UserCanceled   bool       `json:"user_canceled"`
	Status         TaskStatus `json:"status"`
	Attempts       int        `json:"attempts"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	ErrorMessages  []string   `json:"error_messages"`
	ResultsFileKey string     `json:"results_file_key"`
}
