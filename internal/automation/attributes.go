package automation

import (
	"trimatch/internal/domain"
	"trimatch/internal/rules"
)

// invoiceFields is the explicit accessor registry for invoice attributes
// visible to rules. Adding a field here is the only way to make it
// rule-addressable.
var invoiceFields = map[string]func(*domain.Invoice) interface{}{
	"invoice_number":  func(inv *domain.Invoice) interface{} { return inv.InvoiceNumber },
	"vendor_name":     func(inv *domain.Invoice) interface{} { return inv.VendorName },
	"grand_total":     func(inv *domain.Invoice) interface{} { return inv.GrandTotal },
	"currency":        func(inv *domain.Invoice) interface{} { return inv.Currency },
	"status":          func(inv *domain.Invoice) interface{} { return string(inv.Status) },
	"line_item_count": func(inv *domain.Invoice) interface{} { return len(inv.LineItems) },
	"invoice_date": func(inv *domain.Invoice) interface{} {
		if inv.InvoiceDate == nil {
			return nil
		}
		return *inv.InvoiceDate
	},
	"due_date": func(inv *domain.Invoice) interface{} {
		if inv.DueDate == nil {
			return nil
		}
		return *inv.DueDate
	},
	"review_category": func(inv *domain.Invoice) interface{} {
		if inv.ReviewCategory == nil {
			return nil
		}
		return string(*inv.ReviewCategory)
	},
}

type invoiceRecord struct {
	inv *domain.Invoice
}

// InvoiceRecord adapts an invoice to the rule evaluator's attribute model.
func InvoiceRecord(inv *domain.Invoice) rules.Record {
	return invoiceRecord{inv: inv}
}

// Attribute implements rules.Record.
func (r invoiceRecord) Attribute(name string) (interface{}, bool) {
	accessor, ok := invoiceFields[name]
	if !ok {
		return nil, false
	}
	val := accessor(r.inv)
	if val == nil {
		return nil, false
	}
	return val, true
}
