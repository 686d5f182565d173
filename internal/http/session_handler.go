package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/service"
)

// SessionHandler expone la creacion de sesiones y el estado completo.
type SessionHandler struct {
	logger *zap.Logger
	store  service.StateStore
	tokens *service.SessionTokenService
	tips   domain.DailyTips
}

func NewSessionHandler(logger *zap.Logger, store service.StateStore, tokens *service.SessionTokenService) *SessionHandler {
	return &SessionHandler{
		logger: logger,
		store:  store,
		tokens: tokens,
		tips:   domain.DefaultDailyTips(),
	}
}

// CreateSession maneja POST /session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	state, err := h.store.Create(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "create session", err)
		return
	}
	tok, err := h.tokens.Issue(state.SessionID)
	if err != nil {
		h.logger.Error("session token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_id": state.SessionID,
		"token":      tok.Token,
		"expires_in": tok.ExpiresIn,
	})
}

// GetState maneja GET /state.
func (h *SessionHandler) GetState(c *gin.Context) {
	sessionID, _ := GetSessionID(c)
	state, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, h.logger, "load state", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// ResetState maneja DELETE /state.
func (h *SessionHandler) ResetState(c *gin.Context) {
	sessionID, _ := GetSessionID(c)
	state, err := h.store.Dispatch(c.Request.Context(), sessionID, service.Reset{})
	if err != nil {
		writeError(c, h.logger, "reset state", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// GetTips maneja GET /tips.
func (h *SessionHandler) GetTips(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tips": h.tips})
}
