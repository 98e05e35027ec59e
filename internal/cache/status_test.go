package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/blackholeescape/internal"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func sampleReport() *internal.EscapeReport {
	days := 42
	return &internal.EscapeReport{
		Status: internal.EscapeStatus{
			UserLogin:          "jdoe",
			Level:              4.2,
			DaysUntilBlackhole: &days,
			RiskCategory:       internal.RiskHigh,
			RiskLevel:          0.7,
			RemainingProjects:  []internal.Project{{ID: 2, Name: "ft_printf"}},
		},
		EscapePlan: internal.EscapePlan{
			ProjectsRemainingCurrent: 3,
			TimelineFeasible:         true,
			PriorityProjects:         []string{"ft_printf"},
			Recommendations:          []string{"Track progress daily"},
		},
	}
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, "jdoe")
	assert.True(t, errors.Is(err, ErrMiss))

	require.NoError(t, c.Set(ctx, "jdoe", sampleReport()))
	got, err := c.Get(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, sampleReport(), got)
}

func TestRedisCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "jdoe", sampleReport()))

	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"jdoe"))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "jdoe")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(keyPrefix+"jdoe", "{broken"))

	_, err := c.Get(context.Background(), "jdoe")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrMiss))
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache("not-a-url", time.Minute)
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var c StatusCache = Noop{}
	require.NoError(t, c.Set(context.Background(), "jdoe", sampleReport()))
	_, err := c.Get(context.Background(), "jdoe")
	assert.True(t, errors.Is(err, ErrMiss))
}
