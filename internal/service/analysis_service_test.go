package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"skincare-advisor/internal/analyzer"
	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/imagedata"
)

func TestAnalysisServiceCaptureHappyPath(t *testing.T) {
	store := NewMemoryStateStore(time.Hour)
	state, _ := store.Create(context.Background())
	client := &analyzer.MockClient{Result: analyzer.DemoResult()}
	svc := NewAnalysisService(store, client, 0, zap.NewNop())

	dataURL := testDataURL(t)
	got, err := svc.Capture(context.Background(), state.SessionID, dataURL)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if client.AnalyzeCalls != 1 || client.LastDataURL != dataURL {
		t.Fatalf("expected analyzer to receive the image, got %d calls", client.AnalyzeCalls)
	}
	if got.Image == nil || got.Image.Fingerprint == "" {
		t.Fatalf("expected stored image, got %+v", got.Image)
	}
	if got.FaceDetails == nil || !got.FaceDetails.Complete {
		t.Fatalf("expected complete face details, got %+v", got.FaceDetails)
	}
	if got.FaceDetails.Features.Get(domain.FeatureCombination) != 1 {
		t.Fatalf("expected combination bit set")
	}
}

func TestAnalysisServiceCaptureRejectsBadImage(t *testing.T) {
	store := NewMemoryStateStore(time.Hour)
	state, _ := store.Create(context.Background())
	client := &analyzer.MockClient{}
	svc := NewAnalysisService(store, client, 0, zap.NewNop())

	_, err := svc.Capture(context.Background(), state.SessionID, "data:image/gif;base64,R0lGOD")
	if !errors.Is(err, imagedata.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if client.AnalyzeCalls != 0 {
		t.Fatalf("analyzer must not be called for invalid images")
	}
	after, _ := store.Get(context.Background(), state.SessionID)
	if after.Image != nil {
		t.Fatalf("invalid image must not be stored")
	}
}

func TestAnalysisServiceCaptureKeepsImageOnUpstreamFailure(t *testing.T) {
	store := NewMemoryStateStore(time.Hour)
	state, _ := store.Create(context.Background())
	client := &analyzer.MockClient{Err: analyzer.ErrUnavailable}
	svc := NewAnalysisService(store, client, 0, zap.NewNop())

	if _, err := svc.Capture(context.Background(), state.SessionID, testDataURL(t)); !errors.Is(err, analyzer.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	after, _ := store.Get(context.Background(), state.SessionID)
	if after.Image == nil || after.Analysis != nil {
		t.Fatalf("expected image kept without analysis, got %+v", after)
	}

	client.Err = nil
	client.Result = analyzer.DemoResult()
	retried, err := svc.Retry(context.Background(), state.SessionID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retried.Analysis == nil || client.AnalyzeCalls != 2 {
		t.Fatalf("expected retry to analyze stored image")
	}
}

func TestAnalysisServiceCaptureUnknownSession(t *testing.T) {
	svc := NewAnalysisService(NewMemoryStateStore(time.Hour), &analyzer.MockClient{}, 0, nil)
	if _, err := svc.Capture(context.Background(), "missing", testDataURL(t)); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAnalysisServiceRecommend(t *testing.T) {
	store := NewMemoryStateStore(time.Hour)
	state, _ := store.Create(context.Background())
	recs := domain.Recommendations{
		General: map[string][]domain.CatalogProduct{domain.CategoryMoisturizer: {{ID: "m1", Category: domain.CategoryMoisturizer}}},
		Makeup:  []domain.CatalogProduct{},
	}
	client := &analyzer.MockClient{Result: analyzer.DemoResult(), Recommendations: recs}
	svc := NewAnalysisService(store, client, 0, zap.NewNop())

	if _, err := svc.Recommend(context.Background(), state.SessionID); !errors.Is(err, ErrNoAnalysis) {
		t.Fatalf("expected ErrNoAnalysis before capture, got %v", err)
	}

	if _, err := svc.Capture(context.Background(), state.SessionID, testDataURL(t)); err != nil {
		t.Fatalf("capture: %v", err)
	}
	got, err := svc.Recommend(context.Background(), state.SessionID)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(got.General[domain.CategoryMoisturizer]) != 1 {
		t.Fatalf("unexpected recommendations %+v", got)
	}
	if client.LastRequest.Tone != 3 || client.LastRequest.Type != "Combination" {
		t.Fatalf("unexpected request %+v", client.LastRequest)
	}
	after, _ := store.Get(context.Background(), state.SessionID)
	if after.Recommendations == nil {
		t.Fatalf("expected recommendations stored in state")
	}
}

func TestAnalysisServiceSubmitIsStateless(t *testing.T) {
	client := &analyzer.MockClient{Result: domain.AnalysisResult{Type: "Oily"}}
	svc := NewAnalysisService(NewMemoryStateStore(time.Hour), client, 0, nil)
	result, details, err := svc.Submit(context.Background(), testDataURL(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Type != "Oily" {
		t.Fatalf("unexpected result %+v", result)
	}
	if details.Complete || details.Message != FaceDetailsFallbackMessage {
		t.Fatalf("expected fallback details for incomplete result, got %+v", details)
	}
}
