package match

import (
	"strings"

	"trimatch/internal/domain"
)

// dedupePONumbers trims and de-duplicates the PO numbers an invoice
// references, preserving first-seen order.
func dedupePONumbers(related []string) []string {
	seen := make(map[string]bool, len(related))
	var out []string
	for _, raw := range related {
		num := strings.TrimSpace(raw)
		if num == "" || seen[num] {
			continue
		}
		seen[num] = true
		out = append(out, num)
	}
	return out
}

// itemKey returns the aggregation key for a line item: the SKU when present,
// otherwise the case-folded description. Invoice items and GRN items reduce
// to the same key so partial shipments roll up against the right line.
func itemKey(it *domain.LineItem) string {
	if sku := strings.TrimSpace(it.SKU); sku != "" {
		return "sku:" + sku
	}
	return "desc:" + strings.ToLower(strings.TrimSpace(it.Description))
}

// aggregateReceived sums normalized received quantity per item key across all
// resolved GRNs. GRN lines without a normalized quantity are skipped; they
// carry nothing comparable. The sum is order-independent.
func aggregateReceived(receipts []domain.GoodsReceiptNote) map[string]float64 {
	totals := make(map[string]float64)
	for g := range receipts {
		items := receipts[g].LineItems
		for i := range items {
			if items[i].NormalizedQuantity == nil {
				continue
			}
			totals[itemKey(&items[i])] += *items[i].NormalizedQuantity
		}
	}
	return totals
}

// poNumbers extracts the PO numbers of resolved purchase orders.
func poNumbers(orders []domain.PurchaseOrder) []string {
	out := make([]string, 0, len(orders))
	for i := range orders {
		out = append(out, orders[i].PONumber)
	}
	return out
}

// grnNumbers extracts the GRN numbers of resolved goods receipt notes.
func grnNumbers(receipts []domain.GoodsReceiptNote) []string {
	out := make([]string, 0, len(receipts))
	for i := range receipts {
		out = append(out, receipts[i].GRNNumber)
	}
	return out
}
