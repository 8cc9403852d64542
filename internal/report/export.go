package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"consumables/internal/period"
)

// utf8BOM lets spreadsheet applications detect the encoding
const utf8BOM = "\ufeff"

var exportHeader = []string{
	"Item ID", "Supplier", "Name", "Specification", "Unit", "Unit Price",
	"Desired Delivery Date", "Total Quantity", "Total Cost", "By Line",
}

// ExportFileName encodes the reporting period, e.g. "consumables_2024-01-W2.csv"
func ExportFileName(w period.Window) string {
	return fmt.Sprintf("consumables_%s.csv", w.Key)
}

// BreakdownSeparator joins breakdown entries. Labels never contain it.
const BreakdownSeparator = ";"

// FormatBreakdown renders "label(qty)" entries joined by BreakdownSeparator.
// The quantity is the text after the last "(" of an entry.
func FormatBreakdown(list []Breakdown) string {
	parts := make([]string, 0, len(list))
	for _, b := range list {
		parts = append(parts, b.Label+"("+strconv.Itoa(b.Quantity)+")")
	}
	return strings.Join(parts, BreakdownSeparator)
}

// WriteCSV writes rows as a BOM-prefixed CSV. The equipment breakdown column is
// added when withEquipment is set. Nothing is written for an empty row list.
func WriteCSV(w io.Writer, rows []Row, withEquipment bool) error {
	if len(rows) == 0 {
		return nil
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	cw := csv.NewWriter(w)
	header := exportHeader
	if withEquipment {
		header = append(append([]string{}, exportHeader...), "By Equipment")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Item.ID,
			r.Item.Supplier,
			r.Item.Name,
			r.Item.Specification,
			r.Item.Unit,
			r.Item.Price.String(),
			r.DesiredDeliveryDate,
			strconv.Itoa(r.TotalQuantity),
			r.TotalCost.String(),
			FormatBreakdown(r.ByLine),
		}
		if withEquipment {
			record = append(record, FormatBreakdown(r.ByEquipment))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write export row %s: %w", r.Item.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
