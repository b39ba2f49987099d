package documents

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/reorder"
)

// ContentTypeXLSX is the MIME type of generated workbooks
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timestampLayout = "2006-01-02 15:04:05"

// Transaction sheet column names, matched case-insensitively
var columnAliases = map[string]string{
	"sku":      "sku",
	"name":     "name",
	"item":     "name",
	"type":     "type",
	"quantity": "quantity",
	"qty":      "quantity",
}

// ParseTransactionSheet reads stock movements from the first sheet of an
// xlsx workbook. The first row is a header naming the sku, name, type and
// quantity columns. Rows without a usable quantity are skipped.
func ParseTransactionSheet(data []byte) ([]importer.Record, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	var (
		records []importer.Record
		columns map[string]int
		rowIdx  int
	)

	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		defer func() { rowIdx++ }()

		if rowIdx == 0 {
			columns = headerColumns(r)
			return nil
		}

		if rec, ok := parseRecordRow(r, columns); ok {
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process Excel rows: %w", err)
	}

	if _, ok := columns["quantity"]; !ok {
		return nil, fmt.Errorf("missing quantity column")
	}
	if _, ok := columns["type"]; !ok {
		return nil, fmt.Errorf("missing type column")
	}

	return records, nil
}

func headerColumns(r *xlsx.Row) map[string]int {
	columns := make(map[string]int)
	for i := 0; i < r.Sheet.MaxCol; i++ {
		cell := r.GetCell(i)
		name := strings.ToLower(strings.TrimSpace(cell.String()))
		if field, ok := columnAliases[name]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = i
			}
		}
	}
	return columns
}

func parseRecordRow(r *xlsx.Row, columns map[string]int) (importer.Record, bool) {
	get := func(field string) string {
		i, ok := columns[field]
		if !ok {
			return ""
		}
		return strings.TrimSpace(r.GetCell(i).String())
	}

	qty, err := strconv.ParseFloat(get("quantity"), 64)
	if err != nil {
		return importer.Record{}, false
	}

	rec := importer.Record{
		SKU:      get("sku"),
		Name:     get("name"),
		Type:     domain.TransactionType(strings.ToUpper(get("type"))),
		Quantity: int(qty),
	}
	if rec.SKU == "" && rec.Name == "" {
		return importer.Record{}, false
	}
	return rec, true
}

// InventoryWorkbook renders the item list as a single-sheet workbook
func InventoryWorkbook(items []domain.InventoryItem) ([]byte, error) {
	headers := []string{
		"ID", "SKU", "Brand", "Name", "Size", "Color", "Category",
		"Quantity", "Min Quantity", "Optimal Quantity", "Price",
		"Stock Value", "Location", "Last Updated",
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.SKU,
			item.Brand,
			item.Name,
			item.Size,
			item.Color,
			string(item.Category),
			strconv.Itoa(item.Quantity),
			strconv.Itoa(item.MinQuantity),
			strconv.Itoa(item.OptimalQuantity),
			item.Price.String(),
			item.StockValue().String(),
			item.Location,
			formatTime(item.LastUpdated),
		})
	}

	return writeWorkbook("Inventory", headers, rows)
}

// ReorderWorkbook renders the reorder list, most urgent first
func ReorderWorkbook(candidates []reorder.Candidate) ([]byte, error) {
	headers := []string{
		"ID", "SKU", "Item", "Quantity", "Min Quantity", "Optimal Quantity",
		"Needed Quantity", "Price", "Needed Amount",
	}

	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []string{
			c.Item.ID,
			c.Item.SKU,
			c.Item.DisplayName(),
			strconv.Itoa(c.Item.Quantity),
			strconv.Itoa(c.Item.MinQuantity),
			strconv.Itoa(c.Item.OptimalQuantity),
			strconv.Itoa(c.NeededQuantity),
			c.Item.Price.String(),
			c.NeededAmount.String(),
		})
	}

	return writeWorkbook("Reorder", headers, rows)
}

// TransactionsWorkbook renders ledger entries in the order given
func TransactionsWorkbook(entries []domain.Transaction) ([]byte, error) {
	headers := []string{"ID", "Item ID", "Item", "Type", "Quantity", "Timestamp", "Note"}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			e.ItemID,
			e.ItemName,
			string(e.Type),
			strconv.Itoa(e.Quantity),
			formatTime(e.Timestamp),
			e.Note,
		})
	}

	return writeWorkbook("Transactions", headers, rows)
}

func writeWorkbook(sheetName string, headers []string, rows [][]string) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, values := range rows {
		row := sheet.AddRow()
		for _, value := range values {
			row.AddCell().Value = value
		}
	}

	sheet.SetColWidth(1, len(headers), 15)

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}
	return buffer.Bytes(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
