// Command seedtol converts a vendor tolerance Excel workbook into a SQL seed
// file. Expects columns: Vendor Name, Price Tolerance %, Quantity Tolerance %,
// data starting at row 2.
// Usage: go run ./cmd/seedtol [workbook.xlsx]
// Output: db/seeds/vendor_tolerances.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type tolEntry struct {
	vendorName  string
	pricePct    float64
	quantityPct float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "vendor_tolerances.xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	outPath := "db/seeds/vendor_tolerances.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := parseSheet(f)
	if err != nil {
		return fmt.Errorf("parse sheet: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no tolerance rows found in %s", xlsxPath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := writeSQL(out, entries); err != nil {
		return fmt.Errorf("write seed: %w", err)
	}

	log.Printf("Generated %d vendor tolerance entries in %s", len(entries), outPath)
	return nil
}

// parseSheet reads the first sheet. Columns: A=vendor name, B=price tolerance
// percent, C=quantity tolerance percent. Row 1 is the header.
func parseSheet(f *excelize.File) ([]tolEntry, error) {
	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []tolEntry
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		vendor := strings.TrimSpace(cellVal(row, 0))
		if vendor == "" || seen[strings.ToLower(vendor)] {
			continue
		}

		pricePct, err := parsePercent(cellVal(row, 1))
		if err != nil {
			log.Printf("row %d: skipping, bad price tolerance: %v", i+1, err)
			continue
		}
		quantityPct, err := parsePercent(cellVal(row, 2))
		if err != nil {
			log.Printf("row %d: skipping, bad quantity tolerance: %v", i+1, err)
			continue
		}
		if pricePct < 0 || quantityPct < 0 {
			log.Printf("row %d: skipping, negative tolerance", i+1)
			continue
		}

		seen[strings.ToLower(vendor)] = true
		entries = append(entries, tolEntry{
			vendorName:  vendor,
			pricePct:    pricePct,
			quantityPct: quantityPct,
		})
	}
	return entries, nil
}

func writeSQL(out *os.File, entries []tolEntry) error {
	header := []string{
		"-- Vendor tolerance seed data generated from Excel.",
		fmt.Sprintf("-- %d entries.", len(entries)),
		"BEGIN;",
		"",
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	for _, e := range entries {
		stmt := fmt.Sprintf(
			"INSERT INTO vendor_tolerances (id, vendor_name, price_tolerance_percent, quantity_tolerance_percent)\n"+
				"VALUES (gen_random_uuid(), %s, %g, %g)\n"+
				"ON CONFLICT (vendor_name) DO UPDATE SET\n"+
				"    price_tolerance_percent = EXCLUDED.price_tolerance_percent,\n"+
				"    quantity_tolerance_percent = EXCLUDED.quantity_tolerance_percent,\n"+
				"    updated_at = now();",
			sqlQuote(e.vendorName), e.pricePct, e.quantityPct,
		)
		if _, err := fmt.Fprintln(out, stmt); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(out, "\nCOMMIT;")
	return err
}

func cellVal(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parsePercent(raw string) (float64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
