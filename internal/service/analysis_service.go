package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"skincare-advisor/internal/analyzer"
	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/imagedata"
)

var ErrNoAnalysis = errors.New("no complete analysis available, capture a new image first")

// AnalysisService conecta la captura de imagenes con el analizador y el estado de sesion.
type AnalysisService struct {
	store         StateStore
	client        analyzer.Client
	maxImageBytes int
	logger        *zap.Logger
}

func NewAnalysisService(
	store StateStore,
	client analyzer.Client,
	maxImageBytes int,
	logger *zap.Logger,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		store:         store,
		client:        client,
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
}

// Submit valida la imagen y la analiza sin tocar ninguna sesion.
func (s *AnalysisService) Submit(ctx context.Context, dataURL string) (domain.AnalysisResult, domain.FaceDetails, error) {
	img, err := imagedata.Parse(dataURL, s.maxImageBytes)
	if err != nil {
		return domain.AnalysisResult{}, domain.FaceDetails{}, err
	}
	result, err := s.client.Analyze(ctx, img.DataURL())
	if err != nil {
		s.logger.Warn("image analysis failed", zap.String("fingerprint", img.Fingerprint), zap.Error(err))
		return domain.AnalysisResult{}, domain.FaceDetails{}, err
	}
	return result, BuildFaceDetails(&result), nil
}

// Capture guarda la imagen en la sesion, la analiza y registra el resultado.
// Si el analisis falla la imagen queda guardada para reintentar.
func (s *AnalysisService) Capture(ctx context.Context, sessionID, dataURL string) (domain.AppState, error) {
	img, err := imagedata.Parse(dataURL, s.maxImageBytes)
	if err != nil {
		return domain.AppState{}, err
	}
	captured := domain.CapturedImage{
		DataURL:     img.DataURL(),
		MIME:        img.MIME,
		Fingerprint: img.Fingerprint,
		Width:       img.Width,
		Height:      img.Height,
	}
	if _, err := s.store.Dispatch(ctx, sessionID, CaptureImage{Image: captured}); err != nil {
		return domain.AppState{}, err
	}
	return s.analyzeStored(ctx, sessionID, captured)
}

// Retry vuelve a enviar la imagen ya capturada.
func (s *AnalysisService) Retry(ctx context.Context, sessionID string) (domain.AppState, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return domain.AppState{}, err
	}
	if state.Image == nil {
		return domain.AppState{}, fmt.Errorf("%w: no image captured", ErrInvalidAction)
	}
	return s.analyzeStored(ctx, sessionID, *state.Image)
}

func (s *AnalysisService) analyzeStored(ctx context.Context, sessionID string, img domain.CapturedImage) (domain.AppState, error) {
	result, err := s.client.Analyze(ctx, img.DataURL)
	if err != nil {
		s.logger.Warn("image analysis failed",
			zap.String("session_id", sessionID),
			zap.String("fingerprint", img.Fingerprint),
			zap.Error(err),
		)
		return domain.AppState{}, err
	}
	return s.store.Dispatch(ctx, sessionID, RecordAnalysis{Result: result})
}

// Recommend pide recomendaciones para el analisis guardado y las registra.
func (s *AnalysisService) Recommend(ctx context.Context, sessionID string) (domain.Recommendations, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return domain.Recommendations{}, err
	}
	if state.Analysis == nil || !state.Analysis.Complete() {
		return domain.Recommendations{}, ErrNoAnalysis
	}
	recs, err := s.client.Recommend(ctx, RecommendationRequestFor(*state.Analysis))
	if err != nil {
		s.logger.Warn("recommendation failed", zap.String("session_id", sessionID), zap.Error(err))
		return domain.Recommendations{}, err
	}
	if _, err := s.store.Dispatch(ctx, sessionID, RecordRecommendations{Recommendations: recs}); err != nil {
		return domain.Recommendations{}, err
	}
	return recs, nil
}

// RecommendFor resuelve una solicitud explicita sin sesion.
func (s *AnalysisService) RecommendFor(ctx context.Context, req domain.RecommendationRequest) (domain.Recommendations, error) {
	if req.Tone < 1 {
		return domain.Recommendations{}, fmt.Errorf("%w: tone must be positive", ErrInvalidRecommendationRequest)
	}
	return s.client.Recommend(ctx, req)
}
