package analyzer

import (
	"context"
	"time"

	"skincare-advisor/internal/domain"
)

// RecommendFunc resuelve recomendaciones localmente.
type RecommendFunc func(ctx context.Context, req domain.RecommendationRequest) (domain.Recommendations, error)

// SimulatedClient reemplaza al servicio remoto con un resultado fijo tras una demora.
// La demora respeta la cancelacion del contexto.
type SimulatedClient struct {
	Delay       time.Duration
	Result      domain.AnalysisResult
	RecommendFn RecommendFunc
}

// NewSimulatedClient usa el resultado de demostracion por defecto.
func NewSimulatedClient(delay time.Duration, recommend RecommendFunc) *SimulatedClient {
	return &SimulatedClient{
		Delay:       delay,
		Result:      DemoResult(),
		RecommendFn: recommend,
	}
}

// DemoResult es el resultado fijo del analisis simulado.
func DemoResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		Type: "Combination",
		Tone: 3,
		Acne: domain.AcneLow,
		Features: map[string]int{
			domain.FeatureCombination: 1,
			domain.FeatureDull:        1,
			domain.FeaturePore:        1,
		},
	}
}

func (s *SimulatedClient) Analyze(ctx context.Context, _ string) (domain.AnalysisResult, error) {
	if err := s.wait(ctx); err != nil {
		return domain.AnalysisResult{}, err
	}
	out := s.Result
	if s.Result.Features != nil {
		out.Features = make(map[string]int, len(s.Result.Features))
		for k, v := range s.Result.Features {
			out.Features[k] = v
		}
	}
	return out, nil
}

func (s *SimulatedClient) Recommend(ctx context.Context, req domain.RecommendationRequest) (domain.Recommendations, error) {
	if s.RecommendFn == nil {
		return domain.Recommendations{}, ErrUnavailable
	}
	return s.RecommendFn(ctx, req)
}

func (s *SimulatedClient) wait(ctx context.Context) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type localRecommender struct {
	Client
	fn RecommendFunc
}

func (l localRecommender) Recommend(ctx context.Context, req domain.RecommendationRequest) (domain.Recommendations, error) {
	return l.fn(ctx, req)
}

// WithLocalRecommender conserva el analisis de c y resuelve las recomendaciones con fn.
func WithLocalRecommender(c Client, fn RecommendFunc) Client {
	if fn == nil {
		return c
	}
	return localRecommender{Client: c, fn: fn}
}
