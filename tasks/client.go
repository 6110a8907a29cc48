package tasks

import (
	"parshealth.com/triage/redis"
)

type Client struct {
	Triage TriageTasks
}

// NewClient is the preferred way of working with triage task records.
func NewClient() (Client, error) {
	triageRedisClient, err := redis.NewClient(TriageDB)
	if err != nil {
		return Client{}, err
	}
	return Client{
		Triage: TriageTasks{client: triageRedisClient},
	}, nil
}

func (client *Client) Close() {
	_ = client.Triage.client.Close()
}

type TriageTasks struct {
	client redis.Client
}

func (tasks *TriageTasks) Get(redisKey string) (*TriageTask, error) {
	var task TriageTask
	if err := tasks.client.GetDocument(redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies updateFunc to the task record under the distributed
// lock, so concurrent workers cannot clobber each other's status
// transitions.
func (tasks *TriageTasks) Update(redisKey string, updateFunc func(task *TriageTask)) (err error) {
	releaseLock, err := tasks.client.Lock(redisKey)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := releaseLock(); err == nil {
			err = releaseErr
		}
	}()

	var task TriageTask
	if err = tasks.client.GetDocument(redisKey, &task); err != nil {
		return err
	}
	updateFunc(&task)
	return tasks.client.SaveDocument(redisKey, &task)
}
