package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-advisor/internal/service"
)

// TrackerHandler expone el seguimiento de progreso, productos y rutinas de la sesion.
type TrackerHandler struct {
	logger        *zap.Logger
	store         service.StateStore
	maxImageBytes int
}

func NewTrackerHandler(logger *zap.Logger, store service.StateStore, maxImageBytes int) *TrackerHandler {
	return &TrackerHandler{
		logger:        logger,
		store:         store,
		maxImageBytes: maxImageBytes,
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *TrackerHandler) dispatch(c *gin.Context, op string, action service.Action) bool {
	sessionID, _ := GetSessionID(c)
	if _, err := h.store.Dispatch(c.Request.Context(), sessionID, action); err != nil {
		writeError(c, h.logger, op, err)
		return false
	}
	return true
}

// ListProgress maneja GET /progress.
func (h *TrackerHandler) ListProgress(c *gin.Context) {
	sessionID, _ := GetSessionID(c)
	state, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, h.logger, "list progress", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": state.ProgressEntries})
}

// AddProgress maneja POST /progress.
func (h *TrackerHandler) AddProgress(c *gin.Context) {
	var req struct {
		Date        string `json:"date"`
		Notes       string `json:"notes"`
		BeforeImage string `json:"before_image" binding:"required"`
		AfterImage  string `json:"after_image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid progress request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "before and after images are required"})
		return
	}
	var id int64
	action := service.AddProgressEntry{
		Date:        req.Date,
		Notes:       req.Notes,
		BeforeImage: req.BeforeImage,
		AfterImage:  req.AfterImage,
		MaxBytes:    h.maxImageBytes,
		Assigned:    &id,
	}
	if !h.dispatch(c, "add progress entry", action) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DeleteProgress maneja DELETE /progress/:id.
func (h *TrackerHandler) DeleteProgress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if h.dispatch(c, "delete progress entry", service.DeleteProgressEntry{ID: id}) {
		c.Status(http.StatusNoContent)
	}
}

// ListProducts maneja GET /products.
func (h *TrackerHandler) ListProducts(c *gin.Context) {
	sessionID, _ := GetSessionID(c)
	state, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, h.logger, "list products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": state.Products})
}

// AddProduct maneja POST /products.
func (h *TrackerHandler) AddProduct(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid product request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	var id int64
	if !h.dispatch(c, "add product", service.AddProduct{Input: in, Assigned: &id}) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateProduct maneja PATCH /products/:id.
func (h *TrackerHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid product request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if h.dispatch(c, "update product", service.UpdateProduct{ID: id, Input: in}) {
		c.JSON(http.StatusOK, gin.H{"id": id})
	}
}

// DeleteProduct maneja DELETE /products/:id.
func (h *TrackerHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if h.dispatch(c, "delete product", service.DeleteProduct{ID: id}) {
		c.Status(http.StatusNoContent)
	}
}

// ListRoutines maneja GET /routines.
func (h *TrackerHandler) ListRoutines(c *gin.Context) {
	sessionID, _ := GetSessionID(c)
	state, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, h.logger, "list routines", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routines": state.Routines})
}

// AddRoutine maneja POST /routines.
func (h *TrackerHandler) AddRoutine(c *gin.Context) {
	var req struct {
		Name       string   `json:"name"`
		ProductIDs []int64  `json:"product_ids"`
		Schedule   []string `json:"schedule"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid routine request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	var id int64
	action := service.AddRoutine{RoutineName: req.Name, ProductIDs: req.ProductIDs, Schedule: req.Schedule, Assigned: &id}
	if !h.dispatch(c, "add routine", action) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DeleteRoutine maneja DELETE /routines/:id.
func (h *TrackerHandler) DeleteRoutine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if h.dispatch(c, "delete routine", service.DeleteRoutine{ID: id}) {
		c.Status(http.StatusNoContent)
	}
}
