// Package importer reads product candidates from spreadsheets.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abgdnv/catalog/pkg/catalogclient"
	"github.com/xuri/excelize/v2"
)

// Columns recognised in the header row, in their normalised form.
const (
	ColName          = "name"
	ColPrice         = "price"
	ColImage         = "image"
	ColCategory      = "category"
	ColDescription   = "description"
	ColOriginalPrice = "originalprice"
	ColInventory     = "inventory"
)

var ErrMissingColumn = errors.New("required column missing")

// Row is one data row that parsed cleanly. Line is the 1-based spreadsheet row.
type Row struct {
	Line      int
	Candidate catalogclient.Candidate
}

// RowError reports a data row that could not be parsed.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

type Result struct {
	Rows   []Row
	Errors []RowError
}

// ParseFile opens an .xlsx file and parses its first sheet.
func ParseFile(path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parse(f)
}

// Parse reads a workbook from r and parses its first sheet.
func Parse(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from reader: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parse(f)
}

func parse(f *excelize.File) (*Result, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	columns := mapColumns(rows[0])
	for _, required := range []string{ColName, ColPrice, ColImage} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	res := &Result{}
	for i, row := range rows[1:] {
		line := i + 2
		if isEmptyRow(row) {
			continue
		}
		candidate, err := parseRow(row, columns)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: line, Err: err})
			continue
		}
		res.Rows = append(res.Rows, Row{Line: line, Candidate: candidate})
	}
	return res, nil
}

// mapColumns indexes the header; names are matched ignoring case, spaces and underscores.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, col := range header {
		name := normalise(col)
		if name == "" {
			continue
		}
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

func normalise(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func parseRow(row []string, columns map[string]int) (catalogclient.Candidate, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var c catalogclient.Candidate
	c.Name = cell(ColName)
	c.Image = cell(ColImage)
	if c.Name == "" {
		return c, fmt.Errorf("name is empty")
	}
	if c.Image == "" {
		return c, fmt.Errorf("image is empty")
	}

	price, err := parsePrice(cell(ColPrice))
	if err != nil {
		return c, fmt.Errorf("price: %w", err)
	}
	c.Price = &price

	if v := cell(ColCategory); v != "" {
		c.Category = &v
	}
	if v := cell(ColDescription); v != "" {
		c.Description = &v
	}
	if v := cell(ColOriginalPrice); v != "" {
		op, err := parsePrice(v)
		if err != nil {
			return c, fmt.Errorf("originalPrice: %w", err)
		}
		c.OriginalPrice = &op
	}
	if v := cell(ColInventory); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return c, fmt.Errorf("inventory: %q is not a non-negative integer", v)
		}
		inv := int32(n)
		inStock := inv > 0
		c.Inventory = &inv
		c.InStock = &inStock
	}
	return c, nil
}

func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	s = strings.NewReplacer(",", "", " ", "", "$", "", "€", "", "£", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %v", v)
	}
	return v, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
