package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     []interface{}
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestUploadKey(t *testing.T) {
	cases := []struct {
		sid, ip, want string
	}{
		{sid: "s1", ip: "10.0.0.1", want: "sess:s1:10.0.0.1"},
		{sid: " ", ip: "10.0.0.1", want: "ip:10.0.0.1"},
		{sid: "s1", ip: "", want: ""},
	}
	for _, tc := range cases {
		if got := UploadKey(tc.sid, tc.ip); got != tc.want {
			t.Fatalf("UploadKey(%q, %q) = %q, want %q", tc.sid, tc.ip, got, tc.want)
		}
	}
}

func TestRedisRateLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("empty key rejected", func(t *testing.T) {
		l := newRedisRateLimiter(&mockRedisEvaler{result: []interface{}{int64(1), int64(60000)}}, time.Minute, 3, true, nil)
		if ok, _ := l.Allow(ctx, "   "); ok {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: []interface{}{int64(2), int64(90000)}}
		l := newRedisRateLimiter(mock, 2*time.Minute, 3, true, nil)
		if ok, _ := l.Allow(ctx, "sess:s1:10.0.0.1"); !ok {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "skincare:uploads:sess:s1:10.0.0.1" {
			t.Fatalf("unexpected key, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != int64(120000) {
			t.Fatalf("expected window in ms, got %+v", mock.lastArgs)
		}
		if mock.lastScript != uploadWindowScript {
			t.Fatalf("expected upload window script")
		}
	})

	t.Run("deny reports remaining window", func(t *testing.T) {
		l := newRedisRateLimiter(&mockRedisEvaler{result: []interface{}{int64(4), int64(1500)}}, time.Minute, 3, true, nil)
		ok, retry := l.Allow(ctx, "ip:10.0.0.1")
		if ok {
			t.Fatalf("expected deny when count > max")
		}
		if retry != 1500*time.Millisecond {
			t.Fatalf("expected retry after 1.5s, got %s", retry)
		}
	})

	t.Run("redis error follows fail policy and is logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		open := newRedisRateLimiter(&mockRedisEvaler{err: errors.New("down")}, time.Minute, 3, true, zap.New(core))
		if ok, _ := open.Allow(ctx, "ip:10.0.0.1"); !ok {
			t.Fatalf("expected fail-open to allow")
		}
		closed := newRedisRateLimiter(&mockRedisEvaler{err: errors.New("down")}, time.Minute, 3, false, zap.New(core))
		ok, retry := closed.Allow(ctx, "ip:10.0.0.1")
		if ok || retry != time.Minute {
			t.Fatalf("expected fail-closed to deny for a window, got %t %s", ok, retry)
		}
		entries := logs.FilterMessage("upload rate limiter unavailable").All()
		if len(entries) != 2 {
			t.Fatalf("expected both failures logged, got %d", len(entries))
		}
		if entries[0].ContextMap()["decision"] != "fail_open" || entries[1].ContextMap()["decision"] != "fail_closed" {
			t.Fatalf("unexpected logged decisions %v / %v", entries[0].ContextMap(), entries[1].ContextMap())
		}
	})

	t.Run("unexpected reply treated as failure", func(t *testing.T) {
		l := newRedisRateLimiter(&mockRedisEvaler{result: []interface{}{int64(1)}}, time.Minute, 3, false, nil)
		if ok, _ := l.Allow(ctx, "ip:10.0.0.1"); ok {
			t.Fatalf("expected malformed reply to fail closed")
		}
	})
}

func TestNewRedisRateLimiterNilClient(t *testing.T) {
	if l := NewRedisRateLimiter(nil, time.Minute, 3, true, nil); l != nil {
		t.Fatalf("expected nil limiter without client")
	}
}

func TestMemoryRateLimiterBurstPerKey(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)
	l := newMemoryRateLimiter(time.Hour, 2)
	l.now = func() time.Time { return now }

	if ok, _ := l.Allow(ctx, "a"); !ok {
		t.Fatalf("expected first request to pass")
	}
	if ok, _ := l.Allow(ctx, "a"); !ok {
		t.Fatalf("expected second request to pass")
	}
	ok, retry := l.Allow(ctx, "a")
	if ok {
		t.Fatalf("expected third request within window to be denied")
	}
	if retry < 29*time.Minute || retry > 31*time.Minute {
		t.Fatalf("expected retry after one refill interval, got %s", retry)
	}
	if ok, _ := l.Allow(ctx, "b"); !ok {
		t.Fatalf("expected independent bucket for another key")
	}
	if ok, _ := l.Allow(ctx, " "); ok {
		t.Fatalf("expected empty key to be rejected")
	}

	now = now.Add(30 * time.Minute)
	if ok, _ := l.Allow(ctx, "a"); !ok {
		t.Fatalf("expected a token after one refill interval")
	}
}
