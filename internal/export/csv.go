package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"equipment-inventory/internal/model"
)

// utf8BOM makes spreadsheet applications detect the encoding.
const utf8BOM = "\xEF\xBB\xBF"

// WriteCSV writes the summary as a semicolon separated table preceded by a
// UTF-8 byte order mark.
func WriteCSV(w io.Writer, parts []model.PartSummary) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	cw.UseCRLF = true

	if err := cw.Write(summaryHeaders); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, part := range parts {
		record := []string{part.Name, strconv.FormatInt(part.TotalQuantity, 10), part.URLList()}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %q: %w", part.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
