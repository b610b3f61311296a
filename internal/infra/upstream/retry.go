package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
)

type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig tenta uma única vez; a recuperação normal é a
// próxima atualização periódica.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   1,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Do runs fn with exponential backoff. Decode errors and 4xx responses
// are not retried.
func Do(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == cfg.MaxAttempts || !retryable(lastErr) {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}

func retryable(err error) bool {
	var fe *queue.FetchError
	if !errors.As(err, &fe) {
		return true
	}

	switch fe.Kind {
	case queue.FetchDecode:
		return false
	case queue.FetchStatus:
		return fe.StatusCode >= 500 || fe.StatusCode == 429
	}
	return true
}
