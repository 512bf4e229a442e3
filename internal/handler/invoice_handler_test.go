package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trimatch/internal/domain"
	"trimatch/internal/handler"
	"trimatch/internal/service"
	"trimatch/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestInvoiceCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		created := &domain.Invoice{
			ID:            uuid.New(),
			InvoiceNumber: "INV-100",
			VendorName:    "Acme Supplies",
			Status:        domain.StatusPending,
			Version:       1,
		}
		svc.On("CreateInvoice", mock.Anything, mock.AnythingOfType("*domain.Invoice")).
			Return(created, nil)

		body := []byte(`{"invoice_number":"INV-100","vendor_name":"Acme Supplies","grand_total":100}`)
		c, w := newTestContext(t, http.MethodPost, "/api/v1/invoices", body)
		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		svc.AssertExpectations(t)
	})

	t.Run("missing_vendor_name", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		body := []byte(`{"invoice_number":"INV-100"}`)
		c, w := newTestContext(t, http.MethodPost, "/api/v1/invoices", body)
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
		svc.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
	})
}

func TestInvoiceGetByID(t *testing.T) {
	t.Run("invalid_id", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/invoices/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		h.GetByID(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetInvoice", mock.Anything, mock.Anything)
	})

	t.Run("not_found", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		id := uuid.New()
		svc.On("GetInvoice", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/invoices/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INVOICE_NOT_FOUND", resp.Error.Code)
	})

	t.Run("found", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		id := uuid.New()
		svc.On("GetInvoice", mock.Anything, id).
			Return(&domain.Invoice{ID: id, InvoiceNumber: "INV-100"}, nil)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/invoices/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})
}

func TestInvoiceTraceArchive(t *testing.T) {
	t.Run("invalid_id", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/invoices/not-a-uuid/trace-archive", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		h.TraceArchive(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "TraceArchiveURL", mock.Anything, mock.Anything)
	})

	t.Run("nothing_archived", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		id := uuid.New()
		svc.On("TraceArchiveURL", mock.Anything, id).Return("", domain.ErrNotFound)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/invoices/"+id.String()+"/trace-archive", nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.TraceArchive(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("returns_presigned_url", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		id := uuid.New()
		svc.On("TraceArchiveURL", mock.Anything, id).
			Return("https://example.com/signed", nil)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/invoices/"+id.String()+"/trace-archive", nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.TraceArchive(c)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.True(t, resp.Success)
		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "https://example.com/signed", data["url"])
	})
}

func TestInvoiceRematch(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		id := uuid.New()
		svc.On("Rematch", mock.Anything, id).
			Return(&domain.Invoice{ID: id, Status: domain.StatusPending}, nil)

		c, w := newTestContext(t, http.MethodPost, "/api/v1/invoices/"+id.String()+"/rematch", nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.Rematch(c)

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("already_running", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		id := uuid.New()
		svc.On("Rematch", mock.Anything, id).Return(nil, domain.ErrMatchInProgress)

		c, w := newTestContext(t, http.MethodPost, "/api/v1/invoices/"+id.String()+"/rematch", nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.Rematch(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "MATCH_IN_PROGRESS", decodeResponse(t, w).Error.Code)
	})
}

func TestInvoiceResolveReview(t *testing.T) {
	t.Run("invalid_decision", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		id := uuid.New()
		body := []byte(`{"decision":"maybe"}`)
		c, w := newTestContext(t, http.MethodPost, "/api/v1/invoices/"+id.String()+"/review", body)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.ResolveReview(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "ResolveReview", mock.Anything, mock.Anything)
	})

	t.Run("approve", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		id := uuid.New()
		var input *service.ResolveReviewInput
		svc.On("ResolveReview", mock.Anything, mock.AnythingOfType("*service.ResolveReviewInput")).
			Run(func(args mock.Arguments) {
				input = args.Get(1).(*service.ResolveReviewInput)
			}).
			Return(&domain.Invoice{ID: id, Status: domain.StatusApproved}, nil)

		body := []byte(`{"decision":"approve","notes":"checked against PO"}`)
		c, w := newTestContext(t, http.MethodPost, "/api/v1/invoices/"+id.String()+"/review", body)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.ResolveReview(c)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, input)
		assert.Equal(t, id, input.InvoiceID)
		assert.True(t, input.Approve)
		assert.Equal(t, "checked against PO", input.Notes)
	})
}

func TestInvoiceListReviewQueue(t *testing.T) {
	t.Run("invalid_category", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/invoices/review-queue?category=bogus", nil)
		h.ListReviewQueue(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_CATEGORY", decodeResponse(t, w).Error.Code)
		svc.AssertNotCalled(t, "ListReviewQueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("category_filter_passed_through", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		var filter *domain.ReviewCategory
		svc.On("ListReviewQueue", mock.Anything, mock.Anything, 0, 50).
			Run(func(args mock.Arguments) {
				filter, _ = args.Get(1).(*domain.ReviewCategory)
			}).
			Return([]domain.Invoice{}, 0, nil)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/invoices/review-queue?category=data_mismatch", nil)
		h.ListReviewQueue(c)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, filter)
		assert.Equal(t, domain.CategoryDataMismatch, *filter)
	})

	t.Run("pagination_defaults", func(t *testing.T) {
		svc := new(mocks.MockMatchService)
		h := handler.NewInvoiceHandler(svc)

		svc.On("ListReviewQueue", mock.Anything, (*domain.ReviewCategory)(nil), 0, 50).
			Return([]domain.Invoice{}, 0, nil)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/invoices/review-queue", nil)
		h.ListReviewQueue(c)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 50, resp.Meta.Limit)
		svc.AssertExpectations(t)
	})
}
