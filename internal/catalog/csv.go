// Package catalog parses the master-catalog CSV that administrators upload.
package catalog

import (
	"errors"
	"regexp"
	"strings"

	"consumables/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyFile   = errors.New("file is empty")
	ErrNoValidRows = errors.New("no valid rows found in file")
)

// Column order of the import format: id,supplier,name,specification,unit,price
const (
	colID = iota
	colSupplier
	colName
	colSpecification
	colUnit
	colPrice
	minColumns
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// ParseResult is the outcome of parsing an import file
type ParseResult struct {
	Items   []model.ConsumableItem
	Skipped int
}

// Parse reads catalog rows from raw CSV text. The first line is a header and is
// ignored. Rows without an id or name, with fewer than six columns or with a
// price that is not a finite number are skipped. When an id repeats (ignoring
// letter case), the later row wins but keeps the position of the first.
func Parse(raw string) (ParseResult, error) {
	raw = strings.TrimPrefix(raw, "\ufeff")
	if strings.TrimSpace(raw) == "" {
		return ParseResult{}, ErrEmptyFile
	}

	lines := lineBreak.Split(raw, -1)

	var res ParseResult
	seen := make(map[string]int)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		item, ok := parseRow(SplitLine(line))
		if !ok {
			res.Skipped++
			continue
		}

		key := strings.ToLower(item.ID)
		if i, dup := seen[key]; dup {
			res.Items[i] = item
			continue
		}
		seen[key] = len(res.Items)
		res.Items = append(res.Items, item)
	}

	if len(res.Items) == 0 {
		return res, ErrNoValidRows
	}
	return res, nil
}

func parseRow(fields []string) (model.ConsumableItem, bool) {
	if len(fields) < minColumns {
		return model.ConsumableItem{}, false
	}

	id := fields[colID]
	name := fields[colName]
	if id == "" || name == "" {
		return model.ConsumableItem{}, false
	}

	price, ok := ParsePrice(fields[colPrice])
	if !ok {
		return model.ConsumableItem{}, false
	}

	return model.ConsumableItem{
		ID:            id,
		Supplier:      fields[colSupplier],
		Name:          name,
		Specification: fields[colSpecification],
		Unit:          fields[colUnit],
		Price:         price,
	}, true
}

// ParsePrice strips thousands separators and parses a finite decimal number
func ParsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// SplitLine splits one CSV line on commas outside double quotes. Each field is
// trimmed, one layer of enclosing quotes is removed and doubled quotes are
// unescaped.
func SplitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cleanField(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, cleanField(cur.String()))
}

func cleanField(f string) string {
	f = strings.TrimSpace(f)
	if len(f) >= 2 && strings.HasPrefix(f, `"`) && strings.HasSuffix(f, `"`) {
		f = f[1 : len(f)-1]
	}
	return strings.ReplaceAll(f, `""`, `"`)
}
