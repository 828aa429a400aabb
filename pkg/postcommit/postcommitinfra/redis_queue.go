package postcommitinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/logx"
	"github.com/Abraxas-365/talentgate/pkg/postcommit"
	"github.com/redis/go-redis/v9"
)

const envelopeField = "envelope"

// RedisQueue is a postcommit.Queue on a Redis stream with a consumer group,
// so tasks survive restarts and are shared across API instances.
type RedisQueue struct {
	client    *redis.Client
	stream    string
	group     string
	consumer  string
	block     time.Duration
	maxLen    int64
	// claimIdle is how long an entry must sit unacked before another
	// consumer takes it over.
	claimIdle time.Duration
}

// NewRedisQueue creates the consumer group (and stream) if missing.
func NewRedisQueue(ctx context.Context, client *redis.Client, stream, group, consumer string) (*RedisQueue, error) {
	err := client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, errx.Wrap(err, "failed to create consumer group", errx.TypeExternal).
			WithDetail("stream", stream).
			WithDetail("group", group)
	}

	return &RedisQueue{
		client:    client,
		stream:    stream,
		group:     group,
		consumer:  consumer,
		block:     5 * time.Second,
		maxLen:    100000,
		claimIdle: time.Minute,
	}, nil
}

func (q *RedisQueue) Push(ctx context.Context, env postcommit.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return postcommit.ErrEncodeFailed(err)
	}

	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		MaxLen: q.maxLen,
		Approx: true,
		Values: map[string]any{envelopeField: string(raw)},
	}).Err()
	if err != nil {
		return errx.Wrap(err, "failed to push task", errx.TypeExternal).
			WithDetail("task_id", env.ID)
	}
	return nil
}

// Consume first takes over entries left pending by consumers that died
// before acking, then reads new entries for this worker's consumer name.
// Each entry is acked after fn returns. Undecodable entries are acked and
// dropped.
func (q *RedisQueue) Consume(ctx context.Context, worker int, fn func(context.Context, postcommit.Envelope)) error {
	consumer := fmt.Sprintf("%s-%d", q.consumer, worker)

	if err := q.reclaim(ctx, consumer, fn); err != nil && ctx.Err() == nil {
		logx.WithFields(logx.Fields{"stream": q.stream, "consumer": consumer}).
			Warnf("Failed to reclaim pending tasks: %v", err)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.group,
			Consumer: consumer,
			Streams:  []string{q.stream, ">"},
			Count:    10,
			Block:    q.block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			logx.WithFields(logx.Fields{"stream": q.stream, "consumer": consumer}).
				Errorf("Failed to read task stream: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				q.deliver(ctx, msg, fn)
			}
		}
	}
}

// reclaim walks the pending list with XAUTOCLAIM and delivers every entry
// idle for at least claimIdle. Delivery is at-least-once: a task whose
// handler ran but whose ack was lost runs again.
func (q *RedisQueue) reclaim(ctx context.Context, consumer string, fn func(context.Context, postcommit.Envelope)) error {
	start := "0-0"
	claimed := 0

	for {
		msgs, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   q.stream,
			Group:    q.group,
			Consumer: consumer,
			MinIdle:  q.claimIdle,
			Start:    start,
			Count:    50,
		}).Result()
		if err != nil {
			return err
		}

		for _, msg := range msgs {
			q.deliver(ctx, msg, fn)
		}
		claimed += len(msgs)

		if next == "0-0" || next == "" {
			break
		}
		start = next
	}

	if claimed > 0 {
		logx.Infof("Reclaimed %d pending tasks from %s", claimed, q.stream)
	}
	return nil
}

func (q *RedisQueue) deliver(ctx context.Context, msg redis.XMessage, fn func(context.Context, postcommit.Envelope)) {
	defer func() {
		// Ack with a fresh context so shutdown does not leave entries pending.
		ackCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := q.client.XAck(ackCtx, q.stream, q.group, msg.ID).Err(); err != nil {
			logx.Warnf("Failed to ack task %s: %v", msg.ID, err)
		}
	}()

	raw, _ := msg.Values[envelopeField].(string)
	var env postcommit.Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		logx.WithFields(logx.Fields{"message_id": msg.ID}).Errorf("Dropping undecodable task: %v", err)
		return
	}

	fn(ctx, env)
}

// Close is a no-op; the Redis client is owned by the caller.
func (q *RedisQueue) Close() error {
	return nil
}
