package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/bitmark-inc/geosubmit-api/queue"
)

const (
	backendRedis     = "redis"
	backendMachinery = "machinery"
)

type serverConfig struct {
	Port         string `validate:"required,numeric"`
	MaxBodyBytes int64  `validate:"gte=0"`
}

type queueConfig struct {
	Backend string        `validate:"oneof=redis machinery"`
	Key     string        `validate:"required"`
	Expire  time.Duration `validate:"gt=0"`
	Task    string        `validate:"required"`
}

type redisConfig struct {
	Addr string `validate:"required"`
	DB   int    `validate:"gte=0,lte=15"`
	Conn string
}

type config struct {
	Server serverConfig
	Queue  queueConfig
	Redis  redisConfig
	ORM    string
}

func setConfigDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.max_body_bytes", 2<<20)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("queue.backend", backendRedis)
	viper.SetDefault("queue.key", queue.DefaultKey)
	viper.SetDefault("queue.expire", queue.DefaultExpire)
	viper.SetDefault("queue.task", queue.DefaultTaskName)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("apikey.cache_size", 1000)
	viper.SetDefault("apikey.cache_ttl", 5*time.Minute)
}

// readConfig collects the settings needed at startup and validates them.
func readConfig() (*config, error) {
	cfg := &config{
		Server: serverConfig{
			Port:         viper.GetString("server.port"),
			MaxBodyBytes: viper.GetInt64("server.max_body_bytes"),
		},
		Queue: queueConfig{
			Backend: strings.ToLower(viper.GetString("queue.backend")),
			Key:     viper.GetString("queue.key"),
			Expire:  viper.GetDuration("queue.expire"),
			Task:    viper.GetString("queue.task"),
		},
		Redis: redisConfig{
			Addr: viper.GetString("redis.addr"),
			DB:   viper.GetInt("redis.db"),
			Conn: viper.GetString("redis.conn"),
		},
		ORM: viper.GetString("orm.conn"),
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Queue.Backend == backendMachinery && cfg.Redis.Conn == "" {
		return nil, fmt.Errorf("invalid config: redis.conn is required by the %s queue backend", backendMachinery)
	}
	return cfg, nil
}
