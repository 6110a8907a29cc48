package worker

import (
	"fmt"

	"parshealth.com/triage/tasks"
)

type redisTransactions interface {
	getTriageTask(redisKey string) (*tasks.TriageTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) getTriageTask(redisKey string) (*tasks.TriageTask, error) {
	return wrapper.tasksClient.Triage.Get(redisKey)
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Triage.Update(task.redisKey, func(triageTask *tasks.TriageTask) {
		triageTask.Status = tasks.TaskStatusStarted
		triageTask.Attempts += 1
		triageTask.StartedAt = getFormattedNow()
		triageTask.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	return wrapper.tasksClient.Triage.Update(task.redisKey, func(triageTask *tasks.TriageTask) {
		triageTask.Status = tasks.TaskStatusCanceled
		triageTask.StartedAt = getFormattedNow()
		triageTask.CompletedAt = getFormattedNow()
		triageTask.Attempts += 1
		triageTask.ErrorMessages = append(triageTask.ErrorMessages, errorMessages...)
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Triage.Update(task.redisKey, func(triageTask *tasks.TriageTask) {
		triageTask.Status = tasks.TaskStatusCompletedFailure
		triageTask.StartedAt = getFormattedNow()
		triageTask.CompletedAt = getFormattedNow()
		triageTask.Attempts += 1
		triageTask.ErrorMessages = append(
			triageTask.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				triageTask.Attempts,
				maxRetries,
			),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Triage.Update(task.redisKey, func(triageTask *tasks.TriageTask) {
		triageTask.Status = tasks.TaskStatusFailed
		triageTask.CompletedAt = getFormattedNow()
		triageTask.ErrorMessages = append(triageTask.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Triage.Update(task.redisKey, func(triageTask *tasks.TriageTask) {
		if !triageTask.Status.Complete() {
			triageTask.Status = tasks.TaskStatusCompletedSuccess
		}
		triageTask.CompletedAt = getFormattedNow()
		triageTask.ResultsFileKey = getResultsFileKey(task)
	})
}
