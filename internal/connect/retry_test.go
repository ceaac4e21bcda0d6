package connect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

func fastOptions() RetryOptions {
	return RetryOptions{
		ConnectTimeout: 500 * time.Millisecond,
		RetryInterval:  5 * time.Millisecond,
		MaxWait:        20 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}

	err := WithRetry(context.Background(), "mongodb", "localhost:27017", fastOptions(), ping, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_TimesOut(t *testing.T) {
	opts := fastOptions()
	opts.ConnectTimeout = 40 * time.Millisecond
	down := errors.New("connection refused")

	err := WithRetry(context.Background(), "redis", "localhost:6379", opts, func(context.Context) error { return down }, logger.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "redis unavailable at localhost:6379")
}

func TestRetryOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RetryOptions)
	}{
		{name: "connect timeout", mutate: func(o *RetryOptions) { o.ConnectTimeout = 0 }},
		{name: "retry interval", mutate: func(o *RetryOptions) { o.RetryInterval = 0 }},
		{name: "max wait", mutate: func(o *RetryOptions) { o.MaxWait = -1 }},
		{name: "ping timeout", mutate: func(o *RetryOptions) { o.PingTimeout = 0 }},
		{name: "warn threshold", mutate: func(o *RetryOptions) { o.WarnThreshold = -1 }},
	}

	require.NoError(t, fastOptions().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := fastOptions()
			tt.mutate(&o)
			assert.Error(t, o.Validate())
		})
	}
}
