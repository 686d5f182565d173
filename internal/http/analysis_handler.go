package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/service"
)

// AnalysisHandler expone la captura, el analisis y las recomendaciones.
type AnalysisHandler struct {
	logger   *zap.Logger
	store    service.StateStore
	analysis *service.AnalysisService
}

func NewAnalysisHandler(logger *zap.Logger, store service.StateStore, analysis *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		logger:   logger,
		store:    store,
		analysis: analysis,
	}
}

type imageRequest struct {
	File string `json:"file" binding:"required"`
}

// Upload maneja PUT /upload. Responde type/tone/acne como el servicio de analisis.
func (h *AnalysisHandler) Upload(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid upload request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, details, err := h.analysis.Submit(c.Request.Context(), req.File)
	if err != nil {
		writeError(c, h.logger, "analyze image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"type":         result.Type,
		"tone":         result.Tone,
		"acne":         result.Acne,
		"features":     result.Features,
		"face_details": details,
	})
}

// Recommend maneja PUT /recommend con {tone, type, features}.
func (h *AnalysisHandler) Recommend(c *gin.Context) {
	var req domain.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid recommend request", zap.Error(err))
		msg := "invalid request"
		if errors.Is(err, domain.ErrInvalidFeatureVector) {
			msg = err.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	recs, err := h.analysis.RecommendFor(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "recommend", err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// Capture maneja POST /capture.
func (h *AnalysisHandler) Capture(c *gin.Context) {
	sessionID, _ := GetSessionID(c)
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid capture request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	state, err := h.analysis.Capture(c.Request.Context(), sessionID, req.File)
	if err != nil {
		writeError(c, h.logger, "analyze image", err)
		return
	}
	c.JSON(http.StatusOK, captureResponse(state))
}

// RetryCapture maneja POST /capture/retry sobre la imagen ya guardada.
func (h *AnalysisHandler) RetryCapture(c *gin.Context) {
	sessionID, _ := GetSessionID(c)
	state, err := h.analysis.Retry(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, h.logger, "analyze image", err)
		return
	}
	c.JSON(http.StatusOK, captureResponse(state))
}

func captureResponse(state domain.AppState) gin.H {
	out := gin.H{"face_details": state.FaceDetails}
	if state.Image != nil {
		out["image"] = gin.H{
			"fingerprint": state.Image.Fingerprint,
			"mime":        state.Image.MIME,
			"width":       state.Image.Width,
			"height":      state.Image.Height,
		}
	}
	return out
}

// GetAnalysis maneja GET /analysis.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	sessionID, _ := GetSessionID(c)
	state, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, h.logger, "load analysis", err)
		return
	}
	if state.FaceDetails == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"face_details": state.FaceDetails})
}

// CreateRecommendations maneja POST /recommendations.
func (h *AnalysisHandler) CreateRecommendations(c *gin.Context) {
	sessionID, _ := GetSessionID(c)
	recs, err := h.analysis.Recommend(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, h.logger, "recommend", err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// ListRecommendations maneja GET /recommendations?category=&sort=.
func (h *AnalysisHandler) ListRecommendations(c *gin.Context) {
	sessionID, _ := GetSessionID(c)
	state, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, h.logger, "load recommendations", err)
		return
	}
	if state.Recommendations == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recommendations yet"})
		return
	}
	products, err := service.FilterRecommendations(*state.Recommendations, c.Query("category"), c.Query("sort"))
	if err != nil {
		writeError(c, h.logger, "filter recommendations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
