package config

import "time"

const (
	QueueBackendMemory = "memory"
	QueueBackendRedis  = "redis"
)

// NotificationConfig controls the post-commit fan-out pipeline.
type NotificationConfig struct {
	QueueBackend   string
	QueueBuffer    int
	Stream         string
	ConsumerGroup  string
	ConsumerName   string
	Workers        int
	TaskTimeout    time.Duration
	ReadLegacySubs bool
}

func loadNotificationConfig(env *envReader) NotificationConfig {
	return NotificationConfig{
		QueueBackend:   env.str("NOTIFICATION_QUEUE_BACKEND", QueueBackendMemory),
		QueueBuffer:    env.integer("NOTIFICATION_QUEUE_BUFFER", 1024),
		Stream:         env.str("NOTIFICATION_STREAM", "talentgate:postcommit"),
		ConsumerGroup:  env.str("NOTIFICATION_CONSUMER_GROUP", "talentgate-api"),
		ConsumerName:   env.str("NOTIFICATION_CONSUMER_NAME", "api-1"),
		Workers:        env.integer("NOTIFICATION_WORKERS", 4),
		TaskTimeout:    env.duration("NOTIFICATION_TASK_TIMEOUT", 30*time.Second),
		ReadLegacySubs: env.boolean("NOTIFICATION_READ_LEGACY_SUBSCRIPTIONS", true),
	}
}
