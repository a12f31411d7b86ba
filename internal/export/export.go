// Package export renders the spare-part summary as downloadable files.
package export

import "equipment-inventory/internal/model"

// Download file names.
const (
	CSVFileName  = "zapchasti_obshchiy_spisok.csv"
	XLSXFileName = "zapchasti_obshchiy_spisok.xlsx"
)

// Content types of the rendered files.
const (
	CSVContentType  = "text/csv; charset=utf-8"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var summaryHeaders = []string{"Название запчасти", "Общее количество", "Ссылки для покупки"}

func rowToSlice(part model.PartSummary) []interface{} {
	return []interface{}{part.Name, part.TotalQuantity, part.URLList()}
}
