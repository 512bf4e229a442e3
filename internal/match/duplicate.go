package match

import (
	"fmt"
	"strings"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

const duplicateStep = "Duplicate Check"

// checkDuplicates records the duplicate-invoice check. The working set
// already holds any invoices with the same vendor + invoice number that have
// cleared matching; a hit is a policy violation regardless of how the rest
// of the run goes.
func checkDuplicates(trace *Trace, inv *domain.Invoice, matches []port.DuplicateMatch) {
	if len(matches) == 0 {
		trace.Pass(duplicateStep,
			fmt.Sprintf("no other processed invoice with number %s from %s", inv.InvoiceNumber, inv.VendorName), nil)
		return
	}

	descs := make([]string, 0, len(matches))
	ids := make([]string, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		descs = append(descs, fmt.Sprintf("%s (status %s, received %s)", m.ID, m.Status, m.CreatedAt.Format("2006-01-02")))
		ids = append(ids, m.ID.String())
	}

	trace.Fail(duplicateStep,
		fmt.Sprintf("invoice %s from %s already processed as: %s", inv.InvoiceNumber, inv.VendorName, strings.Join(descs, ", ")),
		domain.CategoryPolicyViolation, map[string]interface{}{
			"duplicate_invoice_ids": ids,
			"duplicate_count":       len(matches),
		})
}
