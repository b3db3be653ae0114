package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
)

const keyPrefix = "alumni:otp_rate"

// OTPLimiter bounds how often codes are requested for one contact and purpose:
// a cooldown between requests, a maximum per window, and a block once the
// maximum is exceeded. Any Redis error rejects the request.
type OTPLimiter struct {
	rdb         redis.UniversalClient
	window      time.Duration
	maxInWindow int
	cooldown    time.Duration
}

func NewOTPLimiter(rdb redis.UniversalClient, window time.Duration, max int, cooldown time.Duration) *OTPLimiter {
	return &OTPLimiter{rdb: rdb, window: window, maxInWindow: max, cooldown: cooldown}
}

func (l *OTPLimiter) Allow(ctx context.Context, contact, purpose string) error {
	blockKey := fmt.Sprintf("%s:block:%s:%s", keyPrefix, contact, purpose)
	lastKey := fmt.Sprintf("%s:last:%s:%s", keyPrefix, contact, purpose)
	countKey := fmt.Sprintf("%s:count:%s:%s", keyPrefix, contact, purpose)

	ttl, err := l.rdb.TTL(ctx, blockKey).Result()
	if err != nil {
		return helper.InternalError("rate limiter unavailable", err)
	}
	if ttl > 0 {
		return helper.RateLimitedError(fmt.Sprintf("too many code requests; try again in %d seconds", seconds(ttl)))
	}

	ttl, err = l.rdb.TTL(ctx, lastKey).Result()
	if err != nil {
		return helper.InternalError("rate limiter unavailable", err)
	}
	if ttl > 0 {
		return helper.RateLimitedError(fmt.Sprintf("please wait %d seconds before requesting another code", seconds(ttl)))
	}

	cnt, err := l.rdb.Incr(ctx, countKey).Result()
	if err != nil {
		return helper.InternalError("rate limiter unavailable", err)
	}
	if cnt == 1 {
		// the window starts with the first request
		if err := l.rdb.Expire(ctx, countKey, l.window).Err(); err != nil {
			return helper.InternalError("rate limiter unavailable", err)
		}
	}

	if int(cnt) > l.maxInWindow {
		block := l.window * 3
		if err := l.rdb.Set(ctx, blockKey, "1", block).Err(); err != nil {
			return helper.InternalError("rate limiter unavailable", err)
		}
		return helper.RateLimitedError(fmt.Sprintf("too many code requests; try again in %d seconds", seconds(block)))
	}

	if err := l.rdb.Set(ctx, lastKey, "1", l.cooldown).Err(); err != nil {
		return helper.InternalError("rate limiter unavailable", err)
	}
	return nil
}

func seconds(d time.Duration) int {
	s := int(d.Seconds())
	if s < 1 {
		return 1
	}
	return s
}
