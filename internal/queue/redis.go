package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/li-xiaohui/classeval/internal/config"
	"github.com/li-xiaohui/classeval/internal/domain"
)

type RedisQueue struct {
	client        *redis.Client
	streamName    string
	consumerGroup string
	consumerName  string
}

func NewRedisQueue(cfg *config.RedisConfig, workerCfg *config.WorkerConfig) (*RedisQueue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	q := &RedisQueue{
		client:        client,
		streamName:    workerCfg.StreamName,
		consumerGroup: workerCfg.ConsumerGroup,
		consumerName:  workerCfg.ConsumerName,
	}

	if err := q.ensureConsumerGroup(ctx); err != nil {
		return nil, err
	}

	return q, nil
}

func (q *RedisQueue) ensureConsumerGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.streamName, q.consumerGroup, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

func (q *RedisQueue) Publish(ctx context.Context, job *domain.EvalJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	_, err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamName,
		Values: map[string]interface{}{
			"job_id": job.ID,
			"data":   string(data),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}

	return nil
}

type Message struct {
	ID  string
	Job *domain.EvalJob
}

func (q *RedisQueue) Consume(ctx context.Context, count int64, block time.Duration) ([]Message, error) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.consumerGroup,
		Consumer: q.consumerName,
		Streams:  []string{q.streamName, ">"},
		Count:    count,
		Block:    block,
	}).Result()

	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}

	var messages []Message
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			data, ok := msg.Values["data"].(string)
			if !ok {
				continue
			}
			var job domain.EvalJob
			if err := json.Unmarshal([]byte(data), &job); err != nil {
				return nil, fmt.Errorf("unmarshal job %s: %w", msg.ID, err)
			}
			messages = append(messages, Message{ID: msg.ID, Job: &job})
		}
	}

	return messages, nil
}

func (q *RedisQueue) Ack(ctx context.Context, messageID string) error {
	if err := q.client.XAck(ctx, q.streamName, q.consumerGroup, messageID).Err(); err != nil {
		return fmt.Errorf("xack %s: %w", messageID, err)
	}
	return nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
