package tasks

import (
	"passport/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskClient handles task enqueuing with shared Redis configuration
type TaskClient struct {
	client       *asynq.Client
	logger       *logger.Logger
	redisOptions *redis.Options
	redisClient  *redis.Client
}

func (c *TaskClient) GetClient() *asynq.Client {
	return c.client
}

// GetRedisClient exposes the shared Redis connection for rate limiting
func (c *TaskClient) GetRedisClient() *redis.Client {
	return c.redisClient
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(
		&redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
	)

	return &TaskClient{
		client: asynq.NewClient(redisOpt),
		redisOptions: &redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		redisClient: redisClient,
		logger:      logger.New("TASKS"),
	}
}

// Enqueue submits a one-off task with the given options
func (c *TaskClient) Enqueue(taskType string, payload []byte, opts ...asynq.Option) error {
	info, err := c.client.Enqueue(asynq.NewTask(taskType, payload), opts...)
	if err != nil {
		return c.logger.Error("failed to enqueue task %s", err, taskType)
	}
	c.logger.Info("enqueued task %s id=%s queue=%s", taskType, info.ID, info.Queue)
	return nil
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}
