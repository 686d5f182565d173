package analyzer

import (
	"context"
	"sync"

	"skincare-advisor/internal/domain"
)

// MockClient permite tests sin llamar al servicio real.
type MockClient struct {
	mu sync.Mutex

	Result          domain.AnalysisResult
	Err             error
	Recommendations domain.Recommendations
	RecommendErr    error

	AnalyzeCalls   int
	LastDataURL    string
	RecommendCalls int
	LastRequest    domain.RecommendationRequest
}

func (m *MockClient) Analyze(_ context.Context, dataURL string) (domain.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnalyzeCalls++
	m.LastDataURL = dataURL
	return m.Result, m.Err
}

func (m *MockClient) Recommend(_ context.Context, req domain.RecommendationRequest) (domain.Recommendations, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecommendCalls++
	m.LastRequest = req
	return m.Recommendations, m.RecommendErr
}
