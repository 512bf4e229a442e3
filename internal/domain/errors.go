package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")
	ErrGoodsReceiptNotFound  = errors.New("goods receipt note not found")
	ErrDuplicatePONumber     = errors.New("purchase order number already exists")
	ErrDuplicateGRNNumber    = errors.New("goods receipt note number already exists")
	ErrVersionConflict       = errors.New("invoice was modified by a concurrent match run")
	ErrMatchInProgress       = errors.New("a match run is already in progress for this invoice")
	ErrInvalidStatus         = errors.New("invoice status does not allow this action")
	ErrInvalidRulePolicy     = errors.New("automation rule policy is malformed")
)
