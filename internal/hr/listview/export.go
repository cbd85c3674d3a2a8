package listview

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ExportCSV serializes the currently filtered set as comma-separated
// text. The header row comes first; row projects one item onto the
// same columns.
func (m *Model[T]) ExportCSV(w io.Writer, header []string, row func(T) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, item := range m.filtered {
		if err := cw.Write(row(item)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
