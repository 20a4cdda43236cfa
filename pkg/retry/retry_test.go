package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

type noopLogger struct{}

func (l *noopLogger) Debug(msg string, tags ...any)               {}
func (l *noopLogger) Info(msg string, tags ...any)                {}
func (l *noopLogger) Warn(msg string, tags ...any)                {}
func (l *noopLogger) Error(msg string, tags ...any)               {}
func (l *noopLogger) Fatal(msg string, tags ...any)               {}
func (l *noopLogger) Debugf(template string, args ...interface{}) {}
func (l *noopLogger) Infof(template string, args ...interface{})  {}
func (l *noopLogger) Warnf(template string, args ...interface{})  {}
func (l *noopLogger) Errorf(template string, args ...interface{}) {}
func (l *noopLogger) Fatalf(template string, args ...interface{}) {}
func (l *noopLogger) With(tags ...any) logging.Logger             { return l }

func fastConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		JitterFactor:  0,
	}
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), func() (int, error) {
		calls++
		return 42, nil
	}, fastConfig(), &noopLogger{})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}, fastConfig(), &noopLogger{})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), func() (int, error) {
		calls++
		return 0, errors.New("persistent")
	}, fastConfig(), &noopLogger{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestRetryShouldRetryPredicate(t *testing.T) {
	cfg := fastConfig()
	cfg.ShouldRetry = func(err error, attempt int) bool {
		return !errors.Is(err, context.Canceled)
	}

	calls := 0
	_, err := Retry(context.Background(), func() (int, error) {
		calls++
		return 0, context.Canceled
	}, cfg, &noopLogger{})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Retry(ctx, func() (int, error) {
		calls++
		return 0, errors.New("never retried")
	}, fastConfig(), &noopLogger{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestRetryFunc(t *testing.T) {
	calls := 0
	err := RetryFunc(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	}, fastConfig(), &noopLogger{})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RetryConfig)
		wantErr bool
	}{
		{"default is valid", func(c *RetryConfig) {}, false},
		{"negative retries", func(c *RetryConfig) { c.MaxRetries = -1 }, true},
		{"zero initial delay", func(c *RetryConfig) { c.InitialDelay = 0 }, true},
		{"zero max delay", func(c *RetryConfig) { c.MaxDelay = 0 }, true},
		{"backoff below one", func(c *RetryConfig) { c.BackoffFactor = 0.5 }, true},
		{"jitter above one", func(c *RetryConfig) { c.JitterFactor = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRetryConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCalculateNextDelay(t *testing.T) {
	next := CalculateNextDelay(time.Second, 2.0, 30*time.Second)
	assert.Equal(t, 2*time.Second, next)

	capped := CalculateNextDelay(20*time.Second, 2.0, 30*time.Second)
	assert.Equal(t, 30*time.Second, capped)
}

func TestCalculateDelayWithJitter(t *testing.T) {
	base := 100 * time.Millisecond

	noJitter := CalculateDelayWithJitter(base, 0)
	assert.Equal(t, base, noJitter)

	for i := 0; i < 10; i++ {
		jittered := CalculateDelayWithJitter(base, 0.2)
		assert.GreaterOrEqual(t, jittered, base)
		assert.LessOrEqual(t, jittered, base+20*time.Millisecond)
	}
}
