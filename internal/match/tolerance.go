package match

import (
	"fmt"
	"math"

	"trimatch/internal/domain"
)

// floatEpsilon absorbs floating-point rounding so a difference exactly equal
// to the tolerance amount still passes.
const floatEpsilon = 1e-9

// Tolerances is the allowed percentage variance for price and quantity
// checks. Values come from a vendor override or the system defaults.
type Tolerances struct {
	PricePercent    float64
	QuantityPercent float64
}

// comparator evaluates quantity and price agreement for one matched
// invoice/PO line pair, writing every check into the trace.
type comparator struct {
	tol   Tolerances
	trace *Trace
}

// quantityCheck compares the invoice line's normalized quantity against the
// quantity received across all linked GRNs for the same item key. A received
// quantity of zero leaves a tolerance window of exactly zero.
func (c *comparator) quantityCheck(invItem *domain.LineItem, received float64, foundOnGRN bool) {
	step := fmt.Sprintf("%s - Quantity Check", itemLabel(invItem))

	if invItem.NormalizedQuantity == nil {
		c.trace.Info(step, "no normalized quantity on invoice line; quantity not comparable", nil)
		return
	}
	if !foundOnGRN {
		c.trace.Fail(step, "item not found on any GRN", domain.CategoryDataMismatch, map[string]interface{}{
			"reason":           "grn_missing",
			"invoice_quantity": *invItem.NormalizedQuantity,
		})
		return
	}

	qty := *invItem.NormalizedQuantity
	allowed := received * c.tol.QuantityPercent / 100
	diff := math.Abs(qty - received)
	details := map[string]interface{}{
		"invoice_quantity":  qty,
		"received_quantity": received,
		"tolerance_percent": c.tol.QuantityPercent,
		"allowed_variance":  allowed,
		"difference":        diff,
	}

	if diff <= allowed+floatEpsilon {
		c.trace.Pass(step, fmt.Sprintf("invoice quantity %.2f within %.2f%% of received %.2f", qty, c.tol.QuantityPercent, received), details)
		return
	}
	c.trace.Fail(step,
		fmt.Sprintf("invoice quantity %.2f deviates from received %.2f by %.2f (allowed %.2f)", qty, received, diff, allowed),
		domain.CategoryDataMismatch, details)
}

// priceCheck compares normalized unit prices between the invoice line and its
// matched PO line. A PO price of exactly zero makes a percentage tolerance
// meaningless, so the comparison is skipped as INFO.
func (c *comparator) priceCheck(invItem, poItem *domain.LineItem) {
	step := fmt.Sprintf("%s - Price Check", itemLabel(invItem))

	if invItem.NormalizedUnitPrice == nil || poItem.NormalizedUnitPrice == nil {
		c.trace.Info(step, "normalized unit price missing on invoice or PO line; price not comparable", nil)
		return
	}

	invPrice := *invItem.NormalizedUnitPrice
	poPrice := *poItem.NormalizedUnitPrice
	if poPrice == 0 {
		c.trace.Info(step, "PO unit price is zero; percentage comparison skipped", map[string]interface{}{
			"invoice_unit_price": invPrice,
			"po_unit_price":      poPrice,
		})
		return
	}

	allowed := poPrice * c.tol.PricePercent / 100
	diff := math.Abs(invPrice - poPrice)
	details := map[string]interface{}{
		"invoice_unit_price": invPrice,
		"po_unit_price":      poPrice,
		"tolerance_percent":  c.tol.PricePercent,
		"allowed_variance":   allowed,
		"difference":         diff,
	}

	if diff <= allowed+floatEpsilon {
		c.trace.Pass(step, fmt.Sprintf("invoice price %.4f within %.2f%% of PO price %.4f", invPrice, c.tol.PricePercent, poPrice), details)
		return
	}
	c.trace.Fail(step,
		fmt.Sprintf("invoice price %.4f deviates from PO price %.4f by %.4f (allowed %.4f)", invPrice, poPrice, diff, allowed),
		domain.CategoryDataMismatch, details)
}
