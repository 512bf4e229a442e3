package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trimatch/internal/domain"
	"trimatch/internal/service"
)

// PurchaseOrderHandler handles purchase order ingestion endpoints.
type PurchaseOrderHandler struct {
	ingestService service.IngestService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler.
func NewPurchaseOrderHandler(ingestService service.IngestService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{ingestService: ingestService}
}

type purchaseOrderRequest struct {
	PONumber   string            `json:"po_number" binding:"required"`
	VendorName string            `json:"vendor_name" binding:"required"`
	OrderDate  *time.Time        `json:"order_date"`
	LineItems  []domain.LineItem `json:"line_items"`
}

// Create handles POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req purchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "po_number and vendor_name are required")
		return
	}

	po, err := h.ingestService.CreatePurchaseOrder(c.Request.Context(), &domain.PurchaseOrder{
		PONumber:   req.PONumber,
		VendorName: req.VendorName,
		OrderDate:  req.OrderDate,
		LineItems:  req.LineItems,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, po)
}

// GetByNumber handles GET /api/v1/purchase-orders/:number
func (h *PurchaseOrderHandler) GetByNumber(c *gin.Context) {
	po, err := h.ingestService.GetPurchaseOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, po)
}

// List handles GET /api/v1/purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	orders, total, err := h.ingestService.ListPurchaseOrders(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/purchase-orders/:number. Editing a PO re-queues
// every invoice that references it.
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	var req purchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "po_number and vendor_name are required")
		return
	}
	if req.PONumber != c.Param("number") {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "po_number in body must match the path")
		return
	}

	po, err := h.ingestService.UpdatePurchaseOrder(c.Request.Context(), &domain.PurchaseOrder{
		PONumber:   req.PONumber,
		VendorName: req.VendorName,
		OrderDate:  req.OrderDate,
		LineItems:  req.LineItems,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, po)
}
