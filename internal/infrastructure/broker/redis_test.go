package broker

import (
	"context"
	"testing"

	"patient-portal/config"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisClient_Unreachable(t *testing.T) {
	log, hook := test.NewNullLogger()

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: "1"}, log)

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
	assert.Empty(t, hook.Entries)
}
