package cache

import (
	"todo-api/internal/domain/model"
	"todo-api/pkg/redis"
)

type HealthCacheGateway interface {
	Health() model.ComponentHealthStatus
}

type RedisHealthCacheGateway struct {
	client *redis.Client
}

var _ HealthCacheGateway = (*RedisHealthCacheGateway)(nil)

func NewRedisHealthCacheGateway(client *redis.Client) *RedisHealthCacheGateway {
	return &RedisHealthCacheGateway{client: client}
}

func (gateway *RedisHealthCacheGateway) Health() model.ComponentHealthStatus {
	check := gateway.client.HealthCheck()
	return model.ComponentHealthStatus{
		Status:  mapStatus(check.Status),
		Details: check.Details,
	}
}

func mapStatus(status redis.HealthStatus) model.HealthStatus {
	switch status {
	case redis.StatusUp:
		return model.StatusUp
	case redis.StatusDown:
		return model.StatusDown
	default:
		return model.StatusUnknown
	}
}

// DisabledCacheGateway reports UNKNOWN when no cache is configured.
type DisabledCacheGateway struct{}

var _ HealthCacheGateway = (*DisabledCacheGateway)(nil)

func NewDisabledCacheGateway() *DisabledCacheGateway {
	return &DisabledCacheGateway{}
}

func (gateway *DisabledCacheGateway) Health() model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status: model.StatusUnknown,
		Details: map[string]string{
			"message": "cache disabled",
		},
	}
}
