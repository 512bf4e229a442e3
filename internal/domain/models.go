package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LineItem is a single line on an invoice, purchase order, or goods receipt
// note. The normalized fields are produced upstream by the unit normalizer;
// a nil normalized value means the line is not comparable and checks against
// it are recorded as INFO rather than FAIL.
type LineItem struct {
	Description         string   `json:"description"`
	SKU                 string   `json:"sku,omitempty"`
	Quantity            float64  `json:"quantity"`
	UnitPrice           float64  `json:"unit_price"`
	LineTotal           float64  `json:"line_total"`
	Unit                string   `json:"unit"`
	NormalizedQuantity  *float64 `json:"normalized_quantity,omitempty"`
	NormalizedUnit      string   `json:"normalized_unit,omitempty"`
	NormalizedUnitPrice *float64 `json:"normalized_unit_price,omitempty"`
}

// LineItems is a JSONB-backed list of line items.
type LineItems []LineItem

// Value implements driver.Valuer for JSONB storage.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage.
func (l *LineItems) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// StringList is a JSONB-backed list of strings (PO/GRN numbers).
type StringList []string

// Value implements driver.Valuer for JSONB storage.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage.
func (s *StringList) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// TraceEntry is one check result in an invoice's match trace. Entries are
// ordered and append-only; the full sequence is the audit artifact for a run.
type TraceEntry struct {
	Step    string                 `json:"step"`
	Status  TraceStatus            `json:"status"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// TraceEntries is a JSONB-backed match trace.
type TraceEntries []TraceEntry

// Value implements driver.Valuer for JSONB storage.
func (t TraceEntries) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB storage.
func (t *TraceEntries) Scan(src interface{}) error {
	return scanJSON(src, t)
}

// Invoice is a vendor invoice extracted upstream. The match engine owns
// status, review_category, match_trace, and the linked document fields; all
// other fields are read-only inputs. Version is the optimistic-concurrency
// counter checked on every match commit.
type Invoice struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	InvoiceNumber    string          `db:"invoice_number" json:"invoice_number"`
	VendorName       string          `db:"vendor_name" json:"vendor_name"`
	InvoiceDate      *time.Time      `db:"invoice_date" json:"invoice_date"`
	DueDate          *time.Time      `db:"due_date" json:"due_date"`
	GrandTotal       float64         `db:"grand_total" json:"grand_total"`
	Currency         string          `db:"currency" json:"currency"`
	RelatedPONumbers StringList      `db:"related_po_numbers" json:"related_po_numbers"`
	LineItems        LineItems       `db:"line_items" json:"line_items"`
	Status           InvoiceStatus   `db:"status" json:"status"`
	ReviewCategory   *ReviewCategory `db:"review_category" json:"review_category"`
	ReviewerNotes    string          `db:"reviewer_notes" json:"reviewer_notes"`
	MatchTrace       TraceEntries    `db:"match_trace" json:"match_trace"`
	LinkedPONumbers  StringList      `db:"linked_po_numbers" json:"linked_po_numbers"`
	LinkedGRNNumbers StringList      `db:"linked_grn_numbers" json:"linked_grn_numbers"`
	MatchedAt        *time.Time      `db:"matched_at" json:"matched_at"`
	TraceArchiveKey  *string         `db:"trace_archive_key" json:"-"`
	Version          int             `db:"version" json:"version"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// PurchaseOrder is a buyer purchase order, read-only during matching.
type PurchaseOrder struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	PONumber   string     `db:"po_number" json:"po_number"`
	VendorName string     `db:"vendor_name" json:"vendor_name"`
	OrderDate  *time.Time `db:"order_date" json:"order_date"`
	LineItems  LineItems  `db:"line_items" json:"line_items"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// GoodsReceiptNote records quantities received against a purchase order.
// Its line items carry no meaningful price.
type GoodsReceiptNote struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	GRNNumber  string     `db:"grn_number" json:"grn_number"`
	PONumber   string     `db:"po_number" json:"po_number"`
	ReceivedAt *time.Time `db:"received_at" json:"received_at"`
	LineItems  LineItems  `db:"line_items" json:"line_items"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// VendorTolerance overrides the system default match tolerances for one vendor.
type VendorTolerance struct {
	ID                       uuid.UUID `db:"id" json:"id"`
	VendorName               string    `db:"vendor_name" json:"vendor_name"`
	PriceTolerancePercent    float64   `db:"price_tolerance_percent" json:"price_tolerance_percent"`
	QuantityTolerancePercent float64   `db:"quantity_tolerance_percent" json:"quantity_tolerance_percent"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}

// AutomationRule is a stored rule evaluated against invoices after a match
// run. Conditions holds the serialized rule policy (see internal/rules).
type AutomationRule struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	Trigger    RuleTrigger     `db:"trigger" json:"trigger"`
	LogicalOp  string          `db:"logical_op" json:"logical_op"`
	Conditions json.RawMessage `db:"conditions" json:"conditions"`
	Action     RuleAction      `db:"action" json:"action"`
	Priority   int             `db:"priority" json:"priority"`
	IsActive   bool            `db:"is_active" json:"is_active"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported scan type %T for JSON column", src)
	}
}
