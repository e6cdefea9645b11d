/*
export.go - Flat-file export of the spending ledger

The column order (id, date, card_name, category, amount, notes) is load
bearing: downstream tooling consumes the file positionally. Do not
reorder.
*/
package ledger

import (
	"encoding/csv"
	"io"
	"strconv"
)

// ExportColumns is the fixed CSV header, in contract order.
var ExportColumns = []string{"id", "date", "card_name", "category", "amount", "notes"}

// WriteCSV serializes entries as CSV, one row per entry.
func WriteCSV(w io.Writer, entries []SpendingEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.ID),
			e.Date.String(),
			e.CardName,
			e.Category,
			e.Amount.StringFixed(2),
			e.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
