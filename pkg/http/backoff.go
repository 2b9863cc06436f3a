package http

import (
	"time"
)

// BackoffConfig controls retry behavior for a request. Retries fire on
// transport errors and on 5xx responses; 4xx responses are final.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
}

// DefaultBackoff returns a conservative retry policy for idempotent calls.
func DefaultBackoff() *BackoffConfig {
	return &BackoffConfig{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		Multiplier:      2.0,
		MaxInterval:     5 * time.Second,
	}
}

// doRequestWithBackoff executes doRequest, retrying per the backoff policy.
// A nil backoff means a single attempt.
func (hc *Client) doRequestWithBackoff(method, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any, backoff *BackoffConfig) (any, any, int, error) {
	if backoff == nil {
		return hc.doRequest(method, path, queryParams, headers, body, successResp, errorResp)
	}

	interval := backoff.InitialInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	multiplier := backoff.Multiplier
	if multiplier < 1 {
		multiplier = 2.0
	}

	var (
		success any
		errResp any
		status  int
		err     error
	)

	for attempt := 0; ; attempt++ {
		success, errResp, status, err = hc.doRequest(method, path, queryParams, headers, body, successResp, errorResp)
		if err == nil {
			return success, errResp, status, nil
		}

		// Client errors will not change on retry.
		if status >= 400 && status < 500 {
			return success, errResp, status, err
		}
		if attempt >= backoff.MaxRetries {
			return success, errResp, status, err
		}

		time.Sleep(interval)
		interval = time.Duration(float64(interval) * multiplier)
		if backoff.MaxInterval > 0 && interval > backoff.MaxInterval {
			interval = backoff.MaxInterval
		}
	}
}
