package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trimatch/internal/domain"
)

func newComparator(tol Tolerances) (*comparator, *Trace) {
	trace := NewTrace()
	return &comparator{tol: tol, trace: trace}, trace
}

func lastEntry(t *testing.T, trace *Trace) domain.TraceEntry {
	t.Helper()
	entries := trace.Entries()
	require.NotEmpty(t, entries)
	return entries[len(entries)-1]
}

func TestQuantityCheck_WithinTolerance(t *testing.T) {
	cmp, trace := newComparator(Tolerances{QuantityPercent: 5})

	cmp.quantityCheck(&domain.LineItem{Description: "Widget", NormalizedQuantity: fptr(103)}, 100, true)

	e := lastEntry(t, trace)
	assert.Equal(t, domain.TracePass, e.Status)
	assert.Equal(t, "Widget - Quantity Check", e.Step)
}

func TestQuantityCheck_ExactBoundaryPasses(t *testing.T) {
	// Received 100 at 5% leaves an allowed variance of exactly 5; an invoice
	// quantity of 105 must pass, not fail on rounding.
	cmp, trace := newComparator(Tolerances{QuantityPercent: 5})

	cmp.quantityCheck(&domain.LineItem{Description: "Widget", NormalizedQuantity: fptr(105)}, 100, true)

	assert.Equal(t, domain.TracePass, lastEntry(t, trace).Status)
}

func TestQuantityCheck_JustOverBoundaryFails(t *testing.T) {
	cmp, trace := newComparator(Tolerances{QuantityPercent: 5})

	cmp.quantityCheck(&domain.LineItem{Description: "Widget", NormalizedQuantity: fptr(105.01)}, 100, true)

	e := lastEntry(t, trace)
	assert.Equal(t, domain.TraceFail, e.Status)
	assert.Equal(t, string(domain.CategoryDataMismatch), e.Details["category"])
}

func TestQuantityCheck_ZeroReceivedZeroWindow(t *testing.T) {
	cmp, trace := newComparator(Tolerances{QuantityPercent: 5})

	cmp.quantityCheck(&domain.LineItem{Description: "Widget", NormalizedQuantity: fptr(0)}, 0, true)
	assert.Equal(t, domain.TracePass, lastEntry(t, trace).Status)

	cmp.quantityCheck(&domain.LineItem{Description: "Widget", NormalizedQuantity: fptr(0.1)}, 0, true)
	assert.Equal(t, domain.TraceFail, lastEntry(t, trace).Status)
}

func TestQuantityCheck_NotComparableIsInfo(t *testing.T) {
	cmp, trace := newComparator(Tolerances{QuantityPercent: 5})

	cmp.quantityCheck(&domain.LineItem{Description: "Widget"}, 100, true)

	assert.Equal(t, domain.TraceInfo, lastEntry(t, trace).Status)
	assert.False(t, trace.HasFailures())
}

func TestQuantityCheck_MissingFromGRN(t *testing.T) {
	cmp, trace := newComparator(Tolerances{QuantityPercent: 5})

	cmp.quantityCheck(&domain.LineItem{Description: "Widget", NormalizedQuantity: fptr(10)}, 0, false)

	e := lastEntry(t, trace)
	assert.Equal(t, domain.TraceFail, e.Status)
	assert.Contains(t, e.Message, "not found on any GRN")
	assert.Equal(t, "grn_missing", e.Details["reason"])
}

func TestPriceCheck_WithinTolerance(t *testing.T) {
	cmp, trace := newComparator(Tolerances{PricePercent: 2})

	cmp.priceCheck(
		&domain.LineItem{Description: "Widget", NormalizedUnitPrice: fptr(10.15)},
		&domain.LineItem{NormalizedUnitPrice: fptr(10.0)},
	)

	e := lastEntry(t, trace)
	assert.Equal(t, domain.TracePass, e.Status)
	assert.Equal(t, "Widget - Price Check", e.Step)
}

func TestPriceCheck_ExactBoundaryPasses(t *testing.T) {
	cmp, trace := newComparator(Tolerances{PricePercent: 2})

	// 10.00 at 2% allows 0.20; invoice at 10.20 is exactly on the line.
	cmp.priceCheck(
		&domain.LineItem{Description: "Widget", NormalizedUnitPrice: fptr(10.20)},
		&domain.LineItem{NormalizedUnitPrice: fptr(10.0)},
	)

	assert.Equal(t, domain.TracePass, lastEntry(t, trace).Status)
}

func TestPriceCheck_OverToleranceFails(t *testing.T) {
	cmp, trace := newComparator(Tolerances{PricePercent: 2})

	cmp.priceCheck(
		&domain.LineItem{Description: "Widget", NormalizedUnitPrice: fptr(10.21)},
		&domain.LineItem{NormalizedUnitPrice: fptr(10.0)},
	)

	assert.Equal(t, domain.TraceFail, lastEntry(t, trace).Status)
}

func TestPriceCheck_ZeroPOPriceSkipped(t *testing.T) {
	cmp, trace := newComparator(Tolerances{PricePercent: 2})

	cmp.priceCheck(
		&domain.LineItem{Description: "Widget", NormalizedUnitPrice: fptr(5)},
		&domain.LineItem{NormalizedUnitPrice: fptr(0)},
	)

	e := lastEntry(t, trace)
	assert.Equal(t, domain.TraceInfo, e.Status)
	assert.Contains(t, e.Message, "PO unit price is zero")
	assert.False(t, trace.HasFailures())
}

func TestPriceCheck_MissingPricesAreInfo(t *testing.T) {
	cmp, trace := newComparator(Tolerances{PricePercent: 2})

	cmp.priceCheck(
		&domain.LineItem{Description: "Widget"},
		&domain.LineItem{NormalizedUnitPrice: fptr(10)},
	)

	assert.Equal(t, domain.TraceInfo, lastEntry(t, trace).Status)
}
