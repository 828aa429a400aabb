package config

import (
	"net"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisConfig is only read when the redis queue backend is selected.
// REDIS_URL, when set, takes precedence over the individual fields.
type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

func (rc RedisConfig) Address() string {
	return net.JoinHostPort(rc.Host, strconv.Itoa(rc.Port))
}

// Options builds go-redis client options.
func (rc RedisConfig) Options() (*redis.Options, error) {
	if rc.URL != "" {
		return redis.ParseURL(rc.URL)
	}
	return &redis.Options{
		Addr:     rc.Address(),
		Password: rc.Password,
		DB:       rc.DB,
	}, nil
}

func loadRedisConfig(env *envReader) RedisConfig {
	return RedisConfig{
		URL:      env.str("REDIS_URL", ""),
		Host:     env.str("REDIS_HOST", "localhost"),
		Port:     env.integer("REDIS_PORT", 6379),
		Password: env.str("REDIS_PASSWORD", ""),
		DB:       env.integer("REDIS_DB", 0),
	}
}
