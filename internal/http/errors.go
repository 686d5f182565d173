package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-advisor/internal/analyzer"
	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/imagedata"
	"skincare-advisor/internal/service"
)

const (
	msgRetakeImage    = "could not analyze the image, please retake or upload another photo"
	msgUpstreamFailed = "analysis service is not responding, please retry"

	// El cliente corto la conexion; no hay a quien responder.
	statusClientClosedRequest = 499
)

// writeError traduce errores de servicio a status HTTP con cuerpo {"error": msg}.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, imagedata.ErrMalformed),
		errors.Is(err, imagedata.ErrUnsupportedFormat),
		errors.Is(err, imagedata.ErrInvalidImage),
		errors.Is(err, imagedata.ErrTooLarge):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, analyzer.ErrRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msgRetakeImage})
	case errors.Is(err, analyzer.ErrUnavailable),
		errors.Is(err, analyzer.ErrMalformedResponse),
		errors.Is(err, context.DeadlineExceeded):
		logger.Warn(op+" upstream failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": msgUpstreamFailed, "retry": true})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session expired or not found"})
	case errors.Is(err, service.ErrNoAnalysis):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrRoutineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidRecommendationRequest),
		errors.Is(err, domain.ErrInvalidFeatureVector):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		logger.Debug(op+" canceled by client", zap.Error(err))
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not " + op})
	}
}
