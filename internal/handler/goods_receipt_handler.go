package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trimatch/internal/domain"
	"trimatch/internal/service"
)

// GoodsReceiptHandler handles goods receipt note ingestion endpoints.
type GoodsReceiptHandler struct {
	ingestService service.IngestService
}

// NewGoodsReceiptHandler creates a new GoodsReceiptHandler.
func NewGoodsReceiptHandler(ingestService service.IngestService) *GoodsReceiptHandler {
	return &GoodsReceiptHandler{ingestService: ingestService}
}

// Create handles POST /api/v1/goods-receipts
func (h *GoodsReceiptHandler) Create(c *gin.Context) {
	var req struct {
		GRNNumber  string            `json:"grn_number" binding:"required"`
		PONumber   string            `json:"po_number" binding:"required"`
		ReceivedAt *time.Time        `json:"received_at"`
		LineItems  []domain.LineItem `json:"line_items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "grn_number and po_number are required")
		return
	}

	grn, err := h.ingestService.CreateGoodsReceipt(c.Request.Context(), &domain.GoodsReceiptNote{
		GRNNumber:  req.GRNNumber,
		PONumber:   req.PONumber,
		ReceivedAt: req.ReceivedAt,
		LineItems:  req.LineItems,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, grn)
}

// GetByNumber handles GET /api/v1/goods-receipts/:number
func (h *GoodsReceiptHandler) GetByNumber(c *gin.Context) {
	grn, err := h.ingestService.GetGoodsReceipt(c.Request.Context(), c.Param("number"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, grn)
}

// ListByPO handles GET /api/v1/goods-receipts?po_number=...
func (h *GoodsReceiptHandler) ListByPO(c *gin.Context) {
	poNumber := c.Query("po_number")
	if poNumber == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "po_number query parameter is required")
		return
	}

	grns, err := h.ingestService.ListGoodsReceiptsByPO(c.Request.Context(), poNumber)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, grns)
}
