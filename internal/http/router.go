package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-advisor/internal/metrics"
	"skincare-advisor/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	sessionH *SessionHandler,
	analysisH *AnalysisHandler,
	trackerH *TrackerHandler,
	tokens *service.SessionTokenService,
	uploads service.RateLimiter,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), metrics.GinMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/tips", sessionH.GetTips)

	// Endpoints sin sesion, compatibles con el servicio de analisis.
	r.PUT("/upload", RateLimitMiddleware(uploads), analysisH.Upload)
	r.PUT("/recommend", analysisH.Recommend)

	r.POST("/session", sessionH.CreateSession)

	auth := r.Group("", SessionAuthMiddleware(tokens))
	auth.GET("/state", sessionH.GetState)
	auth.DELETE("/state", sessionH.ResetState)

	auth.POST("/capture", RateLimitMiddleware(uploads), analysisH.Capture)
	auth.POST("/capture/retry", RateLimitMiddleware(uploads), analysisH.RetryCapture)
	auth.GET("/analysis", analysisH.GetAnalysis)
	auth.POST("/recommendations", analysisH.CreateRecommendations)
	auth.GET("/recommendations", analysisH.ListRecommendations)

	auth.GET("/progress", trackerH.ListProgress)
	auth.POST("/progress", RateLimitMiddleware(uploads), trackerH.AddProgress)
	auth.DELETE("/progress/:id", trackerH.DeleteProgress)

	auth.GET("/products", trackerH.ListProducts)
	auth.POST("/products", trackerH.AddProduct)
	auth.PATCH("/products/:id", trackerH.UpdateProduct)
	auth.DELETE("/products/:id", trackerH.DeleteProduct)

	auth.GET("/routines", trackerH.ListRoutines)
	auth.POST("/routines", trackerH.AddRoutine)
	auth.DELETE("/routines/:id", trackerH.DeleteRoutine)

	return r
}

// zapLoggerMiddleware registra cada request con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if id, ok := GetSessionID(c); ok {
			fields = append(fields, zap.String("session_id", id))
		}
		logger.Info("request", fields...)
	}
}
