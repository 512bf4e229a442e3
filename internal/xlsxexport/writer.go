package xlsxexport

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"trimatch/internal/domain"
)

const sheetName = "Review Queue"

// columns defines the export header row.
var columns = []string{
	"Invoice Number",
	"Vendor",
	"Invoice Date",
	"Due Date",
	"Grand Total",
	"Currency",
	"Status",
	"Review Category",
	"Failed Checks",
	"Linked POs",
	"Linked GRNs",
	"Reviewer Notes",
	"Matched At",
	"Created At",
}

// Writer builds a review-queue workbook for AP teams.
type Writer struct {
	f    *excelize.File
	next int // next 1-based row to write
}

// NewWriter creates a Writer with the header row in place.
func NewWriter() (*Writer, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header row: %w", err)
	}
	return &Writer{f: f, next: 2}, nil
}

// WriteInvoices appends one row per invoice.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		row := invoiceToRow(&invoices[i])
		cell := fmt.Sprintf("A%d", w.next)
		if err := w.f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", w.next, err)
		}
		w.next++
	}
	return nil
}

// Write serializes the workbook and closes it.
func (w *Writer) Write(out io.Writer) error {
	defer func() { _ = w.f.Close() }()
	if err := w.f.Write(out); err != nil {
		return fmt.Errorf("serializing workbook: %w", err)
	}
	return nil
}

func invoiceToRow(inv *domain.Invoice) []interface{} {
	category := ""
	if inv.ReviewCategory != nil {
		category = string(*inv.ReviewCategory)
	}
	return []interface{}{
		inv.InvoiceNumber,
		inv.VendorName,
		formatDate(inv.InvoiceDate),
		formatDate(inv.DueDate),
		inv.GrandTotal,
		inv.Currency,
		string(inv.Status),
		category,
		strings.Join(failedSteps(inv.MatchTrace), "; "),
		strings.Join(inv.LinkedPONumbers, "; "),
		strings.Join(inv.LinkedGRNNumbers, "; "),
		inv.ReviewerNotes,
		formatTime(inv.MatchedAt),
		inv.CreatedAt.Format(time.RFC3339),
	}
}

func failedSteps(trace domain.TraceEntries) []string {
	var steps []string
	for _, e := range trace {
		if e.Status == domain.TraceFail && e.Step != "Final Result" {
			steps = append(steps, e.Step)
		}
	}
	return steps
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
