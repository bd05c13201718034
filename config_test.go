package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/bitmark-inc/geosubmit-api/queue"
)

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) SetupTest() {
	viper.Reset()
	setConfigDefaults()
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := readConfig()
	s.Require().NoError(err)

	s.Equal("8080", cfg.Server.Port)
	s.Equal(backendRedis, cfg.Queue.Backend)
	s.Equal(queue.DefaultKey, cfg.Queue.Key)
	s.Equal(queue.DefaultExpire, cfg.Queue.Expire)
	s.Equal(queue.DefaultTaskName, cfg.Queue.Task)
	s.Empty(cfg.ORM)
}

func (s *ConfigTestSuite) TestUnknownBackend() {
	viper.Set("queue.backend", "kafka")
	_, err := readConfig()
	s.Error(err)
}

func (s *ConfigTestSuite) TestBackendIsCaseInsensitive() {
	viper.Set("queue.backend", "Redis")
	cfg, err := readConfig()
	s.Require().NoError(err)
	s.Equal(backendRedis, cfg.Queue.Backend)
}

func (s *ConfigTestSuite) TestMachineryNeedsBroker() {
	viper.Set("queue.backend", "machinery")
	_, err := readConfig()
	s.Error(err)

	viper.Set("redis.conn", "redis://localhost:6379/1")
	cfg, err := readConfig()
	s.Require().NoError(err)
	s.Equal(backendMachinery, cfg.Queue.Backend)
}

func (s *ConfigTestSuite) TestInvalidValues() {
	viper.Set("queue.expire", 0)
	_, err := readConfig()
	s.Error(err)

	viper.Set("queue.expire", time.Hour)
	viper.Set("server.port", "http")
	_, err = readConfig()
	s.Error(err)
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func TestNewRedisClientFromURL(t *testing.T) {
	client, err := newRedisClient(redisConfig{Conn: "redis://localhost:6380/2"})
	assert.NoError(t, err)
	assert.Equal(t, "localhost:6380", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)

	_, err = newRedisClient(redisConfig{Conn: "http://nope"})
	assert.Error(t, err)
}
