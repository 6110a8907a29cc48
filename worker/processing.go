package worker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"parshealth.com/triage/pipeline"
	"parshealth.com/triage/tasks"
	"parshealth.com/triage/types"
	"parshealth.com/triage/utils"
)

type Message struct {
	WorkType string `json:"work_type"`
	RedisKey string `json:"redis_key"`
	Sender   string `json:"sender"`
	Version  string `json:"version"`
}

type Task struct {
	delivery   *amqp.Delivery
	triageTask *tasks.TriageTask
	message    *Message
	redisKey   string
	parsLogger *zerolog.Logger
}

func (worker *Worker) processMessage(delivery *amqp.Delivery) {
	task, err := worker.createTask(delivery)
	rejectLogger := worker.parsLogger.With().Str("message_id", delivery.MessageId).Logger()
	if err != nil {
		worker.parsLogger.Err(err).
			Str("message_id", delivery.MessageId).
			Str("tid", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(task); err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.pingResults(task, *task.message); err != nil {
		task.parsLogger.Err(err).Msg("Got error while sending message to results queue")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.parsLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.parsLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	err := json.Unmarshal(delivery.Body, &message)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	triageTask, err := worker.redis.getTriageTask(message.RedisKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query triage task for message, got error %w", err)
	}
	taskLogger := worker.parsLogger.With().Str("tid", message.RedisKey).Logger()
	task := Task{
		delivery:   delivery,
		triageTask: triageTask,
		redisKey:   message.RedisKey,
		message:    &message,
		parsLogger: &taskLogger,
	}
	return &task, nil
}

func (worker *Worker) processTask(task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(task)
	if err != nil {
		task.parsLogger.Err(err).
			Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.redis.onTaskStarted(task); err != nil {
		task.parsLogger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update task info: %w", err)
	}
	if err = worker.runPipeline(task); err != nil {
		task.parsLogger.Err(err).Msg("Got error while running triage pipeline")
		if err = worker.redis.onTaskFailedWithError(task, err); err != nil {
			return err
		}
		return nil
	}
	task.parsLogger.Info().Msg("Saved results, marking task as complete")
	if err = worker.redis.onTaskComplete(task); err != nil {
		task.parsLogger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) runPipeline(task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	task.parsLogger.Info().Msgf("Processing message from RMQ, attempt # %d", task.triageTask.Attempts)
	data, err := worker.s3.getVitalsPayload(task)
	if err != nil {
		task.parsLogger.Err(err).Caller().Msg("Could not fetch vitals payload from s3")
		return fmt.Errorf("failed fetch data from s3: %w", err)
	}

	var vitals types.PatientVitals
	if err = json.Unmarshal(data, &vitals); err != nil {
		return fmt.Errorf("failed to unmarshal vitals payload: %w", err)
	}
	vitals.ApplyDefaults()
	if err = vitals.Validate(); err != nil {
		return fmt.Errorf("invalid vitals payload: %w", err)
	}

	request := pipeline.Request{
		Tid:    task.redisKey,
		Vitals: vitals,
	}
	result, ok := <-worker.ppln(request)
	if !ok {
		task.parsLogger.Error().Msg("Pipeline channel was closed before returning anything")
		return errors.New("pipeline channel was closed before returning anything")
	}
	if result.Err != nil {
		return result.Err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal triage result: %w", err)
	}
	task.parsLogger.Info().Msg("Finished pipeline, saving results to s3")
	if err = worker.s3.saveResultsFile(task, string(payload)); err != nil {
		task.parsLogger.Err(err).Msg("Got error while trying to save results")
		return err
	}
	return nil
}

func (worker *Worker) shouldPerformTask(task *Task) (bool, error) {
	taskLogger := task.parsLogger

	if task.triageTask.Status.Complete() {
		taskLogger.Info().Msg("Task is already done. (might indicate issue acking message with RMQ). Sending back to results queue.")
		return false, nil
	}
	if task.triageTask.UserCanceled {
		taskLogger.Info().Msg("Task was canceled by the user, no need to perform it. Sending back to results queue.")
		err := worker.redis.onTaskCancelled(task)
		return false, err
	}
	if task.triageTask.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Msg("Triage task has exceeded retries. Sending back to results queue.")
		err := worker.redis.onTaskExceededRetries(task, worker.config.TaskMaxRetries)
		return false, err
	}
	return true, nil
}
