package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"trimatch/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 response for work handed to the match queue.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, "INVOICE_NOT_FOUND", "invoice not found"
	case errors.Is(err, domain.ErrPurchaseOrderNotFound):
		return http.StatusNotFound, "PURCHASE_ORDER_NOT_FOUND", "purchase order not found"
	case errors.Is(err, domain.ErrGoodsReceiptNotFound):
		return http.StatusNotFound, "GOODS_RECEIPT_NOT_FOUND", "goods receipt note not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrDuplicatePONumber):
		return http.StatusConflict, "DUPLICATE_PO_NUMBER", "purchase order number already exists"
	case errors.Is(err, domain.ErrDuplicateGRNNumber):
		return http.StatusConflict, "DUPLICATE_GRN_NUMBER", "goods receipt note number already exists"
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, "VERSION_CONFLICT", "invoice was modified concurrently; retry the operation"
	case errors.Is(err, domain.ErrMatchInProgress):
		return http.StatusConflict, "MATCH_IN_PROGRESS", "a match run is already in progress for this invoice"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusConflict, "INVALID_STATUS", "invoice status does not allow this action"
	case errors.Is(err, domain.ErrInvalidRulePolicy):
		return http.StatusBadRequest, "INVALID_RULE_POLICY", "automation rule policy is malformed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
