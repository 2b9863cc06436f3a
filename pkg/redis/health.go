package redis

import (
	"context"
	"strconv"
	"time"
)

// HealthCheck represents the outcome of probing the Redis connection
type HealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthCheck pings Redis and reports connection details. The probe is bounded
// so a dead server cannot stall the caller.
func (c *Client) HealthCheck() HealthCheck {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		return HealthCheck{
			Status: StatusDown,
			Details: map[string]string{
				"message": err.Error(),
			},
		}
	}

	stats := c.Stats()
	return HealthCheck{
		Status: StatusUp,
		Details: map[string]string{
			"message":     string(StatusUp),
			"host":        c.config.Host,
			"port":        strconv.Itoa(c.config.Port),
			"database":    strconv.Itoa(c.config.Database),
			"total_conns": strconv.FormatUint(uint64(stats.TotalConns), 10),
			"idle_conns":  strconv.FormatUint(uint64(stats.IdleConns), 10),
		},
	}
}
