package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteErrorClientCanceled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	writeError(c, zap.New(core), "analyze image", fmt.Errorf("submit: %w", context.Canceled))

	if c.Writer.Status() != statusClientClosedRequest {
		t.Fatalf("expected %d, got %d", statusClientClosedRequest, c.Writer.Status())
	}
	if n := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); n != 0 {
		t.Fatalf("expected no error logs for client cancellation, got %d", n)
	}
	if logs.FilterMessage("analyze image canceled by client").Len() != 1 {
		t.Fatalf("expected debug entry, got %v", logs.All())
	}
}

func TestWriteErrorDeadlineStillRetryable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	writeError(c, zap.NewNop(), "analyze image", fmt.Errorf("submit: %w", context.DeadlineExceeded))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}
