package worker

import (
	"reflect"
	"testing"

	"github.com/streadway/amqp"

	"parshealth.com/triage/logger"
	"parshealth.com/triage/tasks"
)

type mockedClientsConfig struct {
	rmqMockConfig
	redisMockConfig
	s3MockConfig
	pipelineMockConfig
}

type mockedClients struct {
	redis    *redisMock
	rmq      *rmqMock
	s3       *s3Mock
	pipeline *pipelineMock
}

type methodsCalls struct {
	redis    redisMockCalls
	rmq      rmqMockCalls
	s3       s3MockCalls
	pipeline pipelineCall
}

func testConfiguration(t *testing.T, config mockedClientsConfig, expectedCalls methodsCalls) {
	worker, mocks := configureWorker(config)
	worker.processMessage(&amqp.Delivery{
		Body: []byte("{}"),
	})
	calls := methodsCalls{
		redis:    mocks.redis.calls,
		rmq:      mocks.rmq.calls,
		s3:       mocks.s3.calls,
		pipeline: mocks.pipeline.calls,
	}
	if !reflect.DeepEqual(calls, expectedCalls) {
		t.Errorf("Got unexpected called methods set.\nExpected:\n%+v\nGot:\n%+v", expectedCalls, calls)
	}
}

func configureWorker(config mockedClientsConfig) (*Worker, *mockedClients) {
	redis := &redisMock{config: config.redisMockConfig}
	s3 := &s3Mock{config: config.s3MockConfig}
	rmq := &rmqMock{config: config.rmqMockConfig}
	pplnMock := getPipelineMock(config.pipelineMockConfig)

	parsLogger := logger.NewLogger("Test Worker")

	return &Worker{
			config:     Config{TaskMaxRetries: 3},
			redis:      redis,
			s3:         s3,
			rmq:        rmq,
			parsLogger: &parsLogger,
			ppln:       pplnMock.ppln,
		}, &mockedClients{
			redis:    redis,
			rmq:      rmq,
			s3:       s3,
			pipeline: pplnMock,
		}
}

func TestWorker(t *testing.T) {
	t.Run("Successful", testSuccessfulTask)
	t.Run("Failed to get triage task", testGetTriageTaskFailed)
	t.Run("Already complete with success", testAlreadyCompletedSuccessfully)
	t.Run("Already complete with failure", testAlreadyCompletedWithFailure)
	t.Run("User cancelled", testUserCancelled)
	t.Run("Exceeded attempts", testExceededAttempts)
	t.Run("Failed to update task in onTaskStarted", testFailedToUpdateOnTaskStarted)
	t.Run("Failed to load data from S3", testFailedToFetchFromS3)
	t.Run("Invalid vitals payload", testInvalidVitalsPayload)
	t.Run("Payload without optional fields", testPayloadWithoutOptionalFields)
	t.Run("Failed due to pipeline error", testPipelineError)
	t.Run("Pipeline channel closed early", testPipelineChannelClosed)
	t.Run("Failed to update task in onTaskComplete", testFailedToUpdateOnTaskComplete)
	t.Run("Failed to save result to S3", testFailedToSaveToS3)
	t.Run("Failed to acknowledge delivery", testFailedAckDelivery)
	t.Run("Failed to ping results queue", testFailedPingResults)
}

func testSuccessfulTask(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{},
		methodsCalls{
			redis: redisMockCalls{
				getTriageTask: true, onTaskStarted: true, onTaskComplete: true,
			},
			rmq: rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
			s3: s3MockCalls{
				getVitalsPayload: true,
				saveResultsFile:  true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testGetTriageTaskFailed(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getTriageTask: withValue{fail: true},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true},
			rmq:   rmqMockCalls{rejectDelivery: true},
		},
	)
}

func testAlreadyCompletedSuccessfully(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getTriageTask: withValue{
					returnedValue: tasks.TriageTask{Status: tasks.TaskStatusCompletedSuccess},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true},
			rmq:   rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
		},
	)
}

func testAlreadyCompletedWithFailure(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getTriageTask: withValue{
					returnedValue: tasks.TriageTask{Status: tasks.TaskStatusCompletedFailure},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true},
			rmq:   rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
		},
	)
}

func testUserCancelled(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getTriageTask: withValue{
					returnedValue: tasks.TriageTask{UserCanceled: true},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true, onTaskCancelled: true},
			rmq:   rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
		},
	)
}

func testExceededAttempts(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getTriageTask: withValue{
					returnedValue: tasks.TriageTask{Attempts: 3},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true, onTaskExceededRetries: true},
			rmq:   rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
		},
	)
}

func testFailedToUpdateOnTaskStarted(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				onTaskStarted: failingMethod{fail: true},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true, onTaskStarted: true},
			rmq:   rmqMockCalls{rejectDelivery: true},
		},
	)
}

func testFailedToFetchFromS3(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			s3MockConfig: s3MockConfig{
				getVitalsPayload: withValue{fail: true},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true, onTaskStarted: true, onTaskFailedWithError: true},
			rmq:   rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
			s3:    s3MockCalls{getVitalsPayload: true},
		},
	)
}

func testInvalidVitalsPayload(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			s3MockConfig: s3MockConfig{
				getVitalsPayload: withValue{returnedValue: []byte(`{"Age": -3}`)},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true, onTaskStarted: true, onTaskFailedWithError: true},
			rmq:   rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
			s3:    s3MockCalls{getVitalsPayload: true},
		},
	)
}

func testPayloadWithoutOptionalFields(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			s3MockConfig: s3MockConfig{
				getVitalsPayload: withValue{returnedValue: []byte(minimalVitalsPayload)},
			},
		},
		methodsCalls{
			redis: redisMockCalls{
				getTriageTask: true, onTaskStarted: true, onTaskComplete: true,
			},
			rmq: rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
			s3: s3MockCalls{
				getVitalsPayload: true,
				saveResultsFile:  true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testPipelineError(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			pipelineMockConfig: pipelineMockConfig{fail: true},
		},
		methodsCalls{
			redis:    redisMockCalls{getTriageTask: true, onTaskStarted: true, onTaskFailedWithError: true},
			rmq:      rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
			s3:       s3MockCalls{getVitalsPayload: true},
			pipeline: pipelineCall{true},
		},
	)
}

func testPipelineChannelClosed(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			pipelineMockConfig: pipelineMockConfig{closeChannel: true},
		},
		methodsCalls{
			redis:    redisMockCalls{getTriageTask: true, onTaskStarted: true, onTaskFailedWithError: true},
			rmq:      rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
			s3:       s3MockCalls{getVitalsPayload: true},
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedToUpdateOnTaskComplete(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				onTaskComplete: failingMethod{fail: true},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true, onTaskStarted: true, onTaskComplete: true},
			rmq:   rmqMockCalls{rejectDelivery: true},
			s3: s3MockCalls{
				getVitalsPayload: true,
				saveResultsFile:  true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedToSaveToS3(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			s3MockConfig: s3MockConfig{
				saveResultsFile: failingMethod{fail: true},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true, onTaskStarted: true, onTaskFailedWithError: true},
			rmq:   rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
			s3: s3MockCalls{
				getVitalsPayload: true,
				saveResultsFile:  true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedAckDelivery(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			rmqMockConfig: rmqMockConfig{
				acknowledgeDelivery: failingMethod{fail: true},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true, onTaskStarted: true, onTaskComplete: true},
			rmq:   rmqMockCalls{pingResults: true, acknowledgeDelivery: true},
			s3: s3MockCalls{
				getVitalsPayload: true,
				saveResultsFile:  true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedPingResults(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			rmqMockConfig: rmqMockConfig{
				pingResults: failingMethod{fail: true},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getTriageTask: true, onTaskStarted: true, onTaskComplete: true},
			rmq:   rmqMockCalls{pingResults: true, rejectDelivery: true},
			s3: s3MockCalls{
				getVitalsPayload: true,
				saveResultsFile:  true,
			},
			pipeline: pipelineCall{true},
		},
	)
}
