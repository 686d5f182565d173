package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"skincare-advisor/internal/service"
)

func TestSessionAuthMiddleware_AllowsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := service.NewSessionTokenService("secret", time.Hour)
	tok, err := tokens.Issue("s1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := gin.New()
	r.GET("/protected", SessionAuthMiddleware(tokens), func(c *gin.Context) {
		id, ok := GetSessionID(c)
		if !ok || id != "s1" {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionAuthMiddleware_RejectsMissingOrInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := service.NewSessionTokenService("secret", time.Hour)

	r := gin.New()
	r.GET("/protected", SessionAuthMiddleware(tokens), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"", "Basic abc", "Bearer not-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

type denyAfterLimiter struct {
	left int
	keys []string
}

func (d *denyAfterLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	d.keys = append(d.keys, key)
	if d.left <= 0 {
		return false, 1500 * time.Millisecond
	}
	d.left--
	return true, 0
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := &denyAfterLimiter{left: 1}
	r := gin.New()
	r.PUT("/upload", RateLimitMiddleware(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	recs := make([]*httptest.ResponseRecorder, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/upload", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(rec, req)
		recs = append(recs, rec)
	}
	if recs[0].Code != http.StatusOK || recs[1].Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %d, %d", recs[0].Code, recs[1].Code)
	}
	if got := recs[1].Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After rounded up to 2, got %q", got)
	}
	if limiter.keys[0] != "ip:10.0.0.1" {
		t.Fatalf("expected ip key without session, got %q", limiter.keys[0])
	}
}

func TestRateLimitMiddlewareKeysBySession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := service.NewSessionTokenService("secret", time.Hour)
	limiter := &denyAfterLimiter{left: 10}
	r := gin.New()
	r.POST("/capture", SessionAuthMiddleware(tokens), RateLimitMiddleware(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, sid := range []string{"s1", "s2"} {
		tok, err := tokens.Issue(sid)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		req := httptest.NewRequest(http.MethodPost, "/capture", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("session %s: expected 200, got %d", sid, rec.Code)
		}
	}
	want := []string{"sess:s1:10.0.0.1", "sess:s2:10.0.0.1"}
	if len(limiter.keys) != 2 || limiter.keys[0] != want[0] || limiter.keys[1] != want[1] {
		t.Fatalf("expected per-session keys %v, got %v", want, limiter.keys)
	}
}
