package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trimatch/internal/domain"
	"trimatch/internal/service"
	"trimatch/internal/xlsxexport"
)

const exportPageSize = 500

// InvoiceHandler handles invoice ingestion, match results, and review endpoints.
type InvoiceHandler struct {
	matchService service.MatchService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(matchService service.MatchService) *InvoiceHandler {
	return &InvoiceHandler{matchService: matchService}
}

// Create handles POST /api/v1/invoices. The invoice is persisted as pending
// and picked up by the match queue worker.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req struct {
		InvoiceNumber    string            `json:"invoice_number" binding:"required"`
		VendorName       string            `json:"vendor_name" binding:"required"`
		InvoiceDate      *time.Time        `json:"invoice_date"`
		DueDate          *time.Time        `json:"due_date"`
		GrandTotal       float64           `json:"grand_total"`
		Currency         string            `json:"currency"`
		RelatedPONumbers []string          `json:"related_po_numbers"`
		LineItems        []domain.LineItem `json:"line_items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invoice_number and vendor_name are required")
		return
	}

	inv := &domain.Invoice{
		InvoiceNumber:    req.InvoiceNumber,
		VendorName:       req.VendorName,
		InvoiceDate:      req.InvoiceDate,
		DueDate:          req.DueDate,
		GrandTotal:       req.GrandTotal,
		Currency:         req.Currency,
		RelatedPONumbers: req.RelatedPONumbers,
		LineItems:        req.LineItems,
	}
	created, err := h.matchService.CreateInvoice(c.Request.Context(), inv)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, created)
}

// GetByID handles GET /api/v1/invoices/:id. The response includes the full
// match trace and linked document numbers.
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	inv, err := h.matchService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// TraceArchive handles GET /api/v1/invoices/:id/trace-archive
// It returns a short-lived download link for the archived trace document.
func (h *InvoiceHandler) TraceArchive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	url, err := h.matchService.TraceArchiveURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// List handles GET /api/v1/invoices?status=...
func (h *InvoiceHandler) List(c *gin.Context) {
	status := domain.InvoiceStatus(c.DefaultQuery("status", string(domain.StatusPending)))
	offset, limit := parsePagination(c)

	invoices, total, err := h.matchService.ListByStatus(c.Request.Context(), status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListReviewQueue handles GET /api/v1/invoices/review-queue?category=...
func (h *InvoiceHandler) ListReviewQueue(c *gin.Context) {
	category, ok := parseCategory(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	invoices, total, err := h.matchService.ListReviewQueue(c.Request.Context(), category, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ExportReviewQueue handles GET /api/v1/invoices/review-queue/export and
// streams the queue as an .xlsx workbook.
func (h *InvoiceHandler) ExportReviewQueue(c *gin.Context) {
	category, ok := parseCategory(c)
	if !ok {
		return
	}

	w, err := xlsxexport.NewWriter()
	if err != nil {
		HandleError(c, err)
		return
	}

	offset := 0
	for {
		invoices, total, err := h.matchService.ListReviewQueue(c.Request.Context(), category, offset, exportPageSize)
		if err != nil {
			HandleError(c, err)
			return
		}
		if err := w.WriteInvoices(invoices); err != nil {
			HandleError(c, err)
			return
		}
		offset += len(invoices)
		if offset >= total || len(invoices) == 0 {
			break
		}
	}

	filename := fmt.Sprintf("review-queue-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := w.Write(c.Writer); err != nil {
		// Headers are already out; all we can do is log via HandleError's path.
		HandleError(c, err)
	}
}

// Rematch handles POST /api/v1/invoices/:id/rematch.
func (h *InvoiceHandler) Rematch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	inv, err := h.matchService.Rematch(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, inv)
}

// ResolveReview handles POST /api/v1/invoices/:id/review.
func (h *InvoiceHandler) ResolveReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "decision is required")
		return
	}
	if req.Decision != "approve" && req.Decision != "reject" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "decision must be 'approve' or 'reject'")
		return
	}

	inv, err := h.matchService.ResolveReview(c.Request.Context(), &service.ResolveReviewInput{
		InvoiceID: id,
		Approve:   req.Decision == "approve",
		Notes:     req.Notes,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return offset, limit
}

// parseCategory reads the optional ?category= filter. On an unknown category
// it writes a 400 and returns ok=false.
func parseCategory(c *gin.Context) (*domain.ReviewCategory, bool) {
	raw := c.Query("category")
	if raw == "" {
		return nil, true
	}
	cat := domain.ReviewCategory(raw)
	switch cat {
	case domain.CategoryMissingDocument, domain.CategoryPolicyViolation, domain.CategoryDataMismatch:
		return &cat, true
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_CATEGORY",
			"category must be missing_document, policy_violation, or data_mismatch")
		return nil, false
	}
}
