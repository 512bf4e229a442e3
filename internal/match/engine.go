package match

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

// Engine runs the 3-way match for a single invoice: link referenced purchase
// orders and goods receipts, pair invoice lines to PO lines, compare
// quantities and prices inside tolerance, and finalize a status with a full
// explanatory trace. One Run call is synchronous and single-threaded; all
// required data is loaded up front and held in memory for the duration, and
// the outcome is committed in one write guarded by the invoice's version.
type Engine struct {
	invoices   port.InvoiceRepository
	orders     port.PurchaseOrderRepository
	receipts   port.GoodsReceiptRepository
	tolerances port.VendorToleranceRepository
	duplicates port.DuplicateInvoiceFinder
	matcher    *itemMatcher
	defaults   Tolerances
}

// NewEngine creates a match engine.
func NewEngine(
	invoices port.InvoiceRepository,
	orders port.PurchaseOrderRepository,
	receipts port.GoodsReceiptRepository,
	tolerances port.VendorToleranceRepository,
	duplicates port.DuplicateInvoiceFinder,
	sim port.StringSimilarity,
	defaults Tolerances,
) *Engine {
	return &Engine{
		invoices:   invoices,
		orders:     orders,
		receipts:   receipts,
		tolerances: tolerances,
		duplicates: duplicates,
		matcher:    newItemMatcher(sim),
		defaults:   defaults,
	}
}

// Result is the committed outcome of one match run.
type Result struct {
	Status           domain.InvoiceStatus
	ReviewCategory   *domain.ReviewCategory
	Trace            domain.TraceEntries
	LinkedPONumbers  domain.StringList
	LinkedGRNNumbers domain.StringList
}

// workingSet is everything a run needs, loaded once before any computation.
type workingSet struct {
	requested  []string
	orders     []domain.PurchaseOrder
	missing    []string
	receipts   []domain.GoodsReceiptNote
	tol        Tolerances
	duplicates []port.DuplicateMatch
}

// Run executes a full match cycle for one invoice and commits the outcome.
// Re-running is idempotent: associations and trace are recomputed from
// scratch and replace the prior result wholesale. A concurrent commit against
// the same invoice surfaces as domain.ErrVersionConflict.
func (e *Engine) Run(ctx context.Context, invoiceID uuid.UUID) (*Result, error) {
	inv, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("loading invoice: %w", err)
	}

	ws, err := e.loadWorkingSet(ctx, inv)
	if err != nil {
		return nil, err
	}

	res := e.compute(inv, ws)

	commit := &port.MatchCommit{
		Status:           res.Status,
		ReviewCategory:   res.ReviewCategory,
		MatchTrace:       res.Trace,
		LinkedPONumbers:  res.LinkedPONumbers,
		LinkedGRNNumbers: res.LinkedGRNNumbers,
		Version:          inv.Version,
	}
	if err := e.invoices.CommitMatchResult(ctx, inv.ID, commit); err != nil {
		return nil, fmt.Errorf("committing match result for %s: %w", inv.ID, err)
	}

	log.Printf("match.Engine: invoice %s finalized status=%s category=%s entries=%d",
		inv.ID, res.Status, categoryString(res.ReviewCategory), len(res.Trace))
	return res, nil
}

// loadWorkingSet resolves every record the run needs through the read ports.
// A referenced PO that does not exist is a resolution failure recorded in the
// working set, never an error; only infrastructure failures propagate.
func (e *Engine) loadWorkingSet(ctx context.Context, inv *domain.Invoice) (*workingSet, error) {
	ws := &workingSet{
		requested: dedupePONumbers(inv.RelatedPONumbers),
		tol:       e.defaults,
	}

	for _, num := range ws.requested {
		po, err := e.orders.GetByNumber(ctx, num)
		if err != nil {
			if errors.Is(err, domain.ErrPurchaseOrderNotFound) || errors.Is(err, domain.ErrNotFound) {
				ws.missing = append(ws.missing, num)
				continue
			}
			return nil, fmt.Errorf("resolving PO %s: %w", num, err)
		}
		ws.orders = append(ws.orders, *po)
	}

	// Discovery failed: the run short-circuits in compute, nothing else to load.
	if len(ws.orders) == 0 {
		return ws, nil
	}

	for i := range ws.orders {
		grns, err := e.receipts.ListByPONumber(ctx, ws.orders[i].PONumber)
		if err != nil {
			return nil, fmt.Errorf("resolving GRNs for PO %s: %w", ws.orders[i].PONumber, err)
		}
		ws.receipts = append(ws.receipts, grns...)
	}

	tol, err := e.tolerances.GetByVendor(ctx, inv.VendorName)
	switch {
	case err == nil:
		ws.tol = Tolerances{
			PricePercent:    tol.PriceTolerancePercent,
			QuantityPercent: tol.QuantityTolerancePercent,
		}
	case errors.Is(err, domain.ErrNotFound):
		// keep system defaults
	default:
		return nil, fmt.Errorf("loading vendor tolerance for %s: %w", inv.VendorName, err)
	}

	dups, err := e.duplicates.FindDuplicates(ctx, inv.ID, inv.InvoiceNumber, inv.VendorName)
	if err != nil {
		return nil, fmt.Errorf("finding duplicate invoices: %w", err)
	}
	ws.duplicates = dups

	return ws, nil
}

// compute derives the full run outcome from the in-memory working set. It is
// pure: no I/O, no suspension points.
func (e *Engine) compute(inv *domain.Invoice, ws *workingSet) *Result {
	trace := NewTrace()

	if len(ws.requested) == 0 {
		trace.Fail("Document Discovery",
			"invoice references no purchase orders (non-PO invoice); routing for review",
			domain.CategoryMissingDocument, nil)
		return finalize(trace, nil, nil)
	}
	if len(ws.orders) == 0 {
		trace.Fail("Document Discovery",
			fmt.Sprintf("none of the referenced purchase orders were found: %v", ws.missing),
			domain.CategoryMissingDocument, map[string]interface{}{
				"searched_po_numbers": ws.missing,
			})
		return finalize(trace, nil, nil)
	}

	linkedPOs := poNumbers(ws.orders)
	linkedGRNs := grnNumbers(ws.receipts)
	discovery := map[string]interface{}{
		"resolved_pos":  linkedPOs,
		"resolved_grns": linkedGRNs,
	}
	if len(ws.missing) > 0 {
		discovery["unresolved_pos"] = ws.missing
	}
	trace.Info("Document Discovery",
		fmt.Sprintf("resolved %d purchase order(s) and %d goods receipt(s)", len(ws.orders), len(ws.receipts)),
		discovery)

	checkDuplicates(trace, inv, ws.duplicates)

	received := aggregateReceived(ws.receipts)
	cmp := &comparator{tol: ws.tol, trace: trace}

	var poItems []domain.LineItem
	for i := range ws.orders {
		poItems = append(poItems, ws.orders[i].LineItems...)
	}

	for i := range inv.LineItems {
		item := &inv.LineItems[i]
		label := itemLabel(item)
		step := fmt.Sprintf("%s - PO Item Match", label)

		hit := e.matcher.bestMatch(item, poItems)
		if hit == nil {
			trace.Fail(step, "item not found on any linked PO", domain.CategoryDataMismatch, nil)
			// Quantity and price checks require a PO anchor; skip them.
			continue
		}
		trace.Pass(step, fmt.Sprintf("matched PO line %q via %s", itemLabel(hit.poItem), hit.method), map[string]interface{}{
			"method": hit.method,
			"score":  hit.score,
		})

		total, found := received[itemKey(item)]
		cmp.quantityCheck(item, total, found)
		cmp.priceCheck(item, hit.poItem)
	}

	return finalize(trace, linkedPOs, linkedGRNs)
}

// finalize derives status and review category from the trace and appends the
// closing "Final Result" entry. Status is a pure function of the trace.
func finalize(trace *Trace, linkedPOs, linkedGRNs []string) *Result {
	res := &Result{
		LinkedPONumbers:  linkedPOs,
		LinkedGRNNumbers: linkedGRNs,
	}

	if cat, failed := trace.WorstCategory(); failed {
		failedSteps := trace.FailedSteps()
		trace.Fail("Final Result",
			fmt.Sprintf("%d check(s) failed; invoice routed for review (%s)", len(failedSteps), cat),
			cat, map[string]interface{}{"failed_checks": failedSteps})
		res.Status = domain.StatusNeedsReview
		res.ReviewCategory = &cat
	} else {
		trace.Pass("Final Result", "all checks passed; invoice matched", nil)
		res.Status = domain.StatusMatched
	}

	res.Trace = trace.Entries()
	return res
}

func categoryString(cat *domain.ReviewCategory) string {
	if cat == nil {
		return "none"
	}
	return string(*cat)
}
