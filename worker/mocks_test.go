package worker

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"parshealth.com/triage/pipeline"
	"parshealth.com/triage/tasks"
)

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type pipelineMock struct {
	ppln   pipeline.Pipeline
	config pipelineMockConfig
	calls  pipelineCall
}

type pipelineMockConfig struct {
	closeChannel bool
	fail         bool
	result       pipeline.Result
}

type pipelineCall struct {
	pipeline bool
}

type redisMock struct {
	config redisMockConfig
	calls  redisMockCalls
}

type redisMockConfig struct {
	getTriageTask         withValue
	onTaskCancelled       failingMethod
	onTaskStarted         failingMethod
	onTaskExceededRetries failingMethod
	onTaskFailedWithError failingMethod
	onTaskComplete        failingMethod
}

type redisMockCalls struct {
	getTriageTask         bool
	onTaskCancelled       bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

type rmqMock struct {
	config rmqMockConfig
	calls  rmqMockCalls
}

type rmqMockConfig struct {
	pingResults         failingMethod
	acknowledgeDelivery failingMethod
}

type rmqMockCalls struct {
	pingResults         bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type s3Mock struct {
	config s3MockConfig
	calls  s3MockCalls
}

type s3MockConfig struct {
	getVitalsPayload withValue
	saveResultsFile  failingMethod
}

type s3MockCalls struct {
	getVitalsPayload bool
	saveResultsFile  bool
}

func (mock *s3Mock) close() {}

func (mock *rmqMock) close() {}

func (mock *redisMock) close() {}

// validVitalsPayload passes types.PatientVitals.Validate.
const validVitalsPayload = `{
	"Age": 45,
	"Gender": "Male",
	"Heart_Rate": 80,
	"Systolic_BP": 120,
	"Diastolic_BP": 80,
	"O2_Saturation": 98,
	"Temperature": 37.0,
	"Respiratory_Rate": 16,
	"Pain_Score": 1,
	"GCS_Score": 15,
	"Arrival_Mode": "Walk-in"
}`

// minimalVitalsPayload leaves out every optional field; worker-side
// defaulting makes it a valid record.
const minimalVitalsPayload = `{
	"Age": 45,
	"Gender": "Male",
	"Heart_Rate": 80,
	"Systolic_BP": 120,
	"Diastolic_BP": 80,
	"O2_Saturation": 98,
	"Temperature": 37.0,
	"Respiratory_Rate": 16
}`

func getPipelineMock(config pipelineMockConfig) *pipelineMock {
	mock := pipelineMock{config: config}
	mock.ppln = func(request pipeline.Request) <-chan pipeline.Result {
		mock.calls.pipeline = true
		if mock.config.closeChannel {
			ch := make(chan pipeline.Result)
			close(ch)
			return ch
		}
		ch := make(chan pipeline.Result, 1)
		if mock.config.fail {
			ch <- pipeline.Result{Err: errors.New("mock: pipeline failed")}
		} else {
			ch <- mock.config.result
		}
		close(ch)
		return ch
	}
	return &mock
}

func (mock *redisMock) getTriageTask(redisKey string) (*tasks.TriageTask, error) {
	mock.calls.getTriageTask = true
	if mock.config.getTriageTask.fail {
		return nil, errors.New("failed to get triage task")
	}
	switch value := mock.config.getTriageTask.returnedValue.(type) {
	case tasks.TriageTask:
		return &value, nil
	default:
		return &tasks.TriageTask{}, nil
	}
}

func (mock *redisMock) onTaskStarted(task *Task) error {
	mock.calls.onTaskStarted = true
	if mock.config.onTaskStarted.fail {
		return errors.New("failed to update triage task on start")
	}
	return nil
}

func (mock *redisMock) onTaskCancelled(task *Task, errorMessages ...string) error {
	mock.calls.onTaskCancelled = true
	if mock.config.onTaskCancelled.fail {
		return errors.New("failed to update triage task on cancel")
	}
	return nil
}

func (mock *redisMock) onTaskExceededRetries(task *Task, maxRetries int) error {
	mock.calls.onTaskExceededRetries = true
	if mock.config.onTaskExceededRetries.fail {
		return errors.New("failed to update triage task on exceeded retries")
	}
	return nil
}

func (mock *redisMock) onTaskFailedWithError(task *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	if mock.config.onTaskFailedWithError.fail {
		return errors.New("failed to update triage task on fail with error")
	}
	return nil
}

func (mock *redisMock) onTaskComplete(task *Task) error {
	mock.calls.onTaskComplete = true
	if mock.config.onTaskComplete.fail {
		return errors.New("failed to update triage task on complete")
	}
	return nil
}

func (mock *rmqMock) rejectDelivery(delivery *amqp.Delivery, parsLogger *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *rmqMock) getDeliveriesCh() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) getReqChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) getRespChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) pingResults(task *Task, message Message) error {
	mock.calls.pingResults = true
	if mock.config.pingResults.fail {
		return errors.New("failed to ping results queue")
	}
	return nil
}

func (mock *rmqMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	if mock.config.acknowledgeDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *s3Mock) getVitalsPayload(task *Task) ([]byte, error) {
	mock.calls.getVitalsPayload = true
	if mock.config.getVitalsPayload.fail {
		return nil, errors.New("mock: failed to load from s3")
	}
	switch value := mock.config.getVitalsPayload.returnedValue.(type) {
	case []byte:
		return value, nil
	default:
		return []byte(validVitalsPayload), nil
	}
}

func (mock *s3Mock) saveResultsFile(task *Task, result string) error {
	mock.calls.saveResultsFile = true
	if mock.config.saveResultsFile.fail {
		return errors.New("failed to upload results")
	}
	return nil
}
