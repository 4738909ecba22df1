package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Column order expected in an import sheet; the first row is a header
const (
	colName = iota
	colDescription
	colPrice
	colCost
	colImage
	colCategory
)

var ErrEmptySheet = errors.New("sheet must have a header row and at least one product row")

// RowError reports a sheet row that was skipped during import
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParseProductSheet reads products from the first sheet of an xlsx workbook.
// Invalid rows are returned as RowErrors (1-based, counting the header) and left out.
func ParseProductSheet(r io.Reader) ([]ProductInput, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, ErrEmptySheet
	}

	var (
		products []ProductInput
		skipped  []RowError
	)
	for i, row := range rows[1:] {
		rowNumber := i + 2
		in, reason := parseProductRow(row)
		if reason != "" {
			skipped = append(skipped, RowError{Row: rowNumber, Reason: reason})
			continue
		}
		products = append(products, in)
	}

	return products, skipped, nil
}

func parseProductRow(row []string) (ProductInput, string) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	in := ProductInput{
		Name:        cell(colName),
		Description: cell(colDescription),
		ImageURL:    cell(colImage),
		Category:    cell(colCategory),
	}
	if in.Name == "" {
		return in, "missing name"
	}
	if in.Category == "" {
		return in, "missing category"
	}

	price, err := decimal.NewFromString(cell(colPrice))
	if err != nil || !price.IsPositive() {
		return in, fmt.Sprintf("invalid price %q", cell(colPrice))
	}
	in.Price = price

	if raw := cell(colCost); raw != "" {
		cost, err := decimal.NewFromString(raw)
		if err != nil || cost.IsNegative() {
			return in, fmt.Sprintf("invalid cost %q", raw)
		}
		in.Cost = &cost
	}

	return in, ""
}
