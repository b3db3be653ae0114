package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
)

func newLimiter(t *testing.T, max int) (*OTPLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewOTPLimiter(rdb, 10*time.Minute, max, 30*time.Second), mr
}

func TestOTPLimiter_Cooldown(t *testing.T) {
	ctx := context.Background()
	l, mr := newLimiter(t, 5)

	require.NoError(t, l.Allow(ctx, "a@x.com", "LOGIN"))

	err := l.Allow(ctx, "a@x.com", "LOGIN")
	require.Error(t, err)
	assert.True(t, helper.IsKind(err, helper.KindRateLimited))
	assert.Contains(t, err.Error(), "please wait")

	// other purposes and contacts are counted separately
	require.NoError(t, l.Allow(ctx, "a@x.com", "REGISTRATION_EMAIL"))
	require.NoError(t, l.Allow(ctx, "b@x.com", "LOGIN"))

	mr.FastForward(31 * time.Second)
	assert.NoError(t, l.Allow(ctx, "a@x.com", "LOGIN"))
}

func TestOTPLimiter_BlocksAfterMax(t *testing.T) {
	ctx := context.Background()
	l, mr := newLimiter(t, 2)

	for i := 0; i < 2; i++ {
		require.NoError(t, l.Allow(ctx, "a@x.com", "LOGIN"))
		mr.FastForward(31 * time.Second)
	}

	err := l.Allow(ctx, "a@x.com", "LOGIN")
	require.Error(t, err)
	assert.True(t, helper.IsKind(err, helper.KindRateLimited))
	assert.Contains(t, err.Error(), "too many")

	mr.FastForward(31 * time.Second)
	err = l.Allow(ctx, "a@x.com", "LOGIN")
	assert.True(t, helper.IsKind(err, helper.KindRateLimited), "block outlasts the cooldown")

	mr.FastForward(31 * time.Minute)
	assert.NoError(t, l.Allow(ctx, "a@x.com", "LOGIN"))
}

func TestOTPLimiter_RedisDown(t *testing.T) {
	l, mr := newLimiter(t, 2)
	mr.Close()

	err := l.Allow(context.Background(), "a@x.com", "LOGIN")
	require.Error(t, err)
	assert.True(t, helper.IsKind(err, helper.KindInternal))
}

// failCommand fails every call of one Redis command and passes the rest through.
type failCommand struct{ name string }

func (h failCommand) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h failCommand) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == h.name {
			err := errors.New("injected " + h.name + " failure")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (h failCommand) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestOTPLimiter_PartialRedisFailureRejects(t *testing.T) {
	for _, command := range []string{"ttl", "set"} {
		t.Run(command, func(t *testing.T) {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = rdb.Close() })
			rdb.AddHook(failCommand{name: command})
			l := NewOTPLimiter(rdb, 10*time.Minute, 5, 30*time.Second)

			err := l.Allow(context.Background(), "a@x.com", "LOGIN")
			require.Error(t, err)
			assert.True(t, helper.IsKind(err, helper.KindInternal))
		})
	}

	t.Run("block set", func(t *testing.T) {
		l, mr := newLimiter(t, 1)
		ctx := context.Background()
		require.NoError(t, l.Allow(ctx, "a@x.com", "LOGIN"))
		mr.FastForward(31 * time.Second)

		l.rdb.AddHook(failCommand{name: "set"})
		err := l.Allow(ctx, "a@x.com", "LOGIN")
		assert.True(t, helper.IsKind(err, helper.KindInternal))
	})
}
