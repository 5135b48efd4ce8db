// Package testutil holds shared fixtures for the inventory web tests.
package testutil

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Skip(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

const (
	defaultTestRedisDB = 9
	redisProbeTimeout  = 2 * time.Second
)

var redisCandidates = []string{"localhost:6379", "redis:6379", "localhost:56379"}

// envBool reports whether key holds a truthy value (1, true, yes, y).
func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// TestTime is the reference instant used across fixtures.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// FixedTimeFunc returns a clock stuck at t.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestTimeProvider is a manually advanced clock, safe for use from the sweeper goroutine.
type TestTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

func NewTestTimeProvider(start time.Time) *TestTimeProvider {
	return &TestTimeProvider{now: start}
}

func (p *TestTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

func (p *TestTimeProvider) SetTime(t time.Time) {
	p.mu.Lock()
	p.now = t
	p.mu.Unlock()
}

func (p *TestTimeProvider) AddTime(d time.Duration) {
	p.mu.Lock()
	p.now = p.now.Add(d)
	p.mu.Unlock()
}

// SetupTestRedis connects to a scratch Redis database and empties it.
// REDIS_ADDR and TEST_REDIS_DB override the probed address and the database index.
// Without a reachable server the test is skipped, or failed when TEST_REQUIRE_REDIS is set.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	candidates := redisCandidates
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		candidates = []string{addr}
	}
	db := testRedisDB(t)

	for _, addr := range candidates {
		client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
		ctx, cancel := context.WithTimeout(context.Background(), redisProbeTimeout)
		err := client.Ping(ctx).Err()
		if err == nil {
			err = client.FlushDB(ctx).Err()
		}
		cancel()
		if err == nil {
			return client
		}
		t.Logf("redis at %s unusable: %v", addr, err)
		_ = client.Close()
	}

	if envBool("TEST_REQUIRE_REDIS") {
		t.Fatalf("redis required but not reachable at %v", candidates)
	}
	t.Skip("redis not available")
	return nil
}

func testRedisDB(t TestingTB) int {
	v := os.Getenv("TEST_REDIS_DB")
	if v == "" {
		return defaultTestRedisDB
	}
	db, err := strconv.Atoi(v)
	if err != nil || db < 0 {
		t.Logf("ignoring TEST_REDIS_DB=%q", v)
		return defaultTestRedisDB
	}
	return db
}
