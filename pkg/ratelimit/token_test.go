package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiter_Wait(t *testing.T) {
	t.Run("deducts from the budget", func(t *testing.T) {
		l := NewTokenLimiter(100)

		require.NoError(t, l.Wait(context.Background(), 40))
		assert.Equal(t, 60, l.GetRemaining())

		require.NoError(t, l.Wait(context.Background(), 60))
		assert.Equal(t, 0, l.GetRemaining())
	})

	t.Run("blocks until cancelled when budget exhausted", func(t *testing.T) {
		l := NewTokenLimiter(10)
		require.NoError(t, l.Wait(context.Background(), 10))

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		err := l.Wait(ctx, 1)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
