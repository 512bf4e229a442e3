package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

// ToleranceHandler handles vendor tolerance management endpoints.
type ToleranceHandler struct {
	tolRepo port.VendorToleranceRepository
}

// NewToleranceHandler creates a new ToleranceHandler.
func NewToleranceHandler(tolRepo port.VendorToleranceRepository) *ToleranceHandler {
	return &ToleranceHandler{tolRepo: tolRepo}
}

// Upsert handles PUT /api/v1/tolerances/:vendor
func (h *ToleranceHandler) Upsert(c *gin.Context) {
	var req struct {
		PriceTolerancePercent    *float64 `json:"price_tolerance_percent" binding:"required"`
		QuantityTolerancePercent *float64 `json:"quantity_tolerance_percent" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "price_tolerance_percent and quantity_tolerance_percent are required")
		return
	}
	if *req.PriceTolerancePercent < 0 || *req.QuantityTolerancePercent < 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "tolerance percents must not be negative")
		return
	}

	tol := &domain.VendorTolerance{
		ID:                       uuid.New(),
		VendorName:               c.Param("vendor"),
		PriceTolerancePercent:    *req.PriceTolerancePercent,
		QuantityTolerancePercent: *req.QuantityTolerancePercent,
	}
	if err := h.tolRepo.Upsert(c.Request.Context(), tol); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tol)
}

// GetByVendor handles GET /api/v1/tolerances/:vendor
func (h *ToleranceHandler) GetByVendor(c *gin.Context) {
	tol, err := h.tolRepo.GetByVendor(c.Request.Context(), c.Param("vendor"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tol)
}

// List handles GET /api/v1/tolerances
func (h *ToleranceHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	tols, total, err := h.tolRepo.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, tols, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Delete handles DELETE /api/v1/tolerances/:vendor
func (h *ToleranceHandler) Delete(c *gin.Context) {
	if err := h.tolRepo.Delete(c.Request.Context(), c.Param("vendor")); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
