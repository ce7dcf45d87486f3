package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/auth"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/dto"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/service"
)

// Permissions gating the read and delete operations. The check is
// OR-semantics: holding any one of the listed strings is enough.
var (
	readPermissions   = []string{"read:buyers"}
	deletePermissions = []string{"delete:buyers"}
)

type Handler struct {
	activityService service.ActivityServicer
	verifier        *auth.Verifier
	router          *gin.Engine
	log             *zap.Logger
}

func NewHandler(activityService service.ActivityServicer, verifier *auth.Verifier, log *zap.Logger) *Handler {
	h := &Handler{
		activityService: activityService,
		verifier:        verifier,
		router:          gin.Default(),
		log:             log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)

	authed := h.router.Group("/", h.verifier.Middleware())
	authed.POST("/activity", h.recordActivity)
	authed.GET("/activity/:buyerId", auth.RequirePermissions(readPermissions...), h.getActivity)
	authed.GET("/activity/:buyerId/summary", auth.RequirePermissions(readPermissions...), h.getActivitySummary)
	authed.GET("/activity/:buyerId/transactions", auth.RequirePermissions(readPermissions...), h.getTransactions)
	authed.DELETE("/activity/:buyerId", auth.RequirePermissions(deletePermissions...), h.deleteActivity)
}

// validateInstants rejects date query parameters that are present but not
// valid RFC3339 instants. A typo'd date must 400, not silently widen the
// query to the full result set.
func validateInstants(params map[string]string) error {
	for name, value := range params {
		if value == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return fmt.Errorf("invalid %s: must be an RFC3339 timestamp", name)
		}
	}
	return nil
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// recordActivity handles POST /activity
func (h *Handler) recordActivity(c *gin.Context) {
	var req dto.RecordActivityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid activity batch", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp := h.activityService.Record(c.Request.Context(), req.Events, c.ClientIP())

	h.log.Info("Activity batch processed",
		zap.Int("accepted", resp.Accepted),
		zap.Int("rejected", resp.Rejected),
		zap.Int("total", len(req.Events)))

	c.JSON(http.StatusAccepted, resp)
}

// getActivity handles GET /activity/:buyerId
func (h *Handler) getActivity(c *gin.Context) {
	buyerID := c.Param("buyerId")

	var query dto.GetActivityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.log.Warn("Invalid activity query", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if err := validateInstants(map[string]string{
		"startDate": query.StartDate,
		"endDate":   query.EndDate,
	}); err != nil {
		h.log.Warn("Invalid activity query date", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.activityService.GetActivity(c.Request.Context(), buyerID, query)
	if err != nil {
		h.log.Error("Failed to get activity",
			zap.Error(err),
			zap.String("buyer_id", buyerID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to retrieve activity",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getActivitySummary handles GET /activity/:buyerId/summary
func (h *Handler) getActivitySummary(c *gin.Context) {
	buyerID := c.Param("buyerId")

	summary, err := h.activityService.GetSummary(c.Request.Context(), buyerID)
	if err != nil {
		h.log.Error("Failed to build activity summary",
			zap.Error(err),
			zap.String("buyer_id", buyerID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to build activity summary",
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getTransactions handles GET /activity/:buyerId/transactions
func (h *Handler) getTransactions(c *gin.Context) {
	buyerID := c.Param("buyerId")

	report, err := h.activityService.GetTransactions(c.Request.Context(), buyerID)
	if err != nil {
		h.log.Error("Failed to build transaction report",
			zap.Error(err),
			zap.String("buyer_id", buyerID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to build transaction report",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// deleteActivity handles DELETE /activity/:buyerId
func (h *Handler) deleteActivity(c *gin.Context) {
	buyerID := c.Param("buyerId")

	var query dto.DeleteActivityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.log.Warn("Invalid delete query", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if err := validateInstants(map[string]string{"before": query.Before}); err != nil {
		h.log.Warn("Invalid delete query date", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	deleted, err := h.activityService.Delete(c.Request.Context(), buyerID, query)
	if err != nil {
		h.log.Error("Failed to delete activity",
			zap.Error(err),
			zap.String("buyer_id", buyerID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to delete activity",
		})
		return
	}

	h.log.Info("Deleted buyer activity",
		zap.String("buyer_id", buyerID),
		zap.String("type", query.Type),
		zap.Int64("deleted_count", deleted))

	c.JSON(http.StatusOK, dto.DeleteActivityResponse{DeletedCount: deleted})
}
