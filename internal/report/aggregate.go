// Package report derives the administrative views over the request log:
// per-item aggregation within a reporting window, spend trends and CSV export.
package report

import (
	"sort"

	"consumables/internal/model"
	"consumables/internal/period"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// noDate is the grouping key used for logs without a desired delivery date
const noDate = "none"

// Breakdown is a quantity attributed to one label (a line or an equipment code)
type Breakdown struct {
	Label    string `json:"label"`
	Quantity int    `json:"quantity"`
}

// Row is one item + delivery-date group within a reporting window
type Row struct {
	Item                model.ConsumableItem `json:"item"`
	DesiredDeliveryDate string               `json:"desired_delivery_date,omitempty"`
	TotalQuantity       int                  `json:"total_quantity"`
	TotalCost           decimal.Decimal      `json:"total_cost"`
	ByLine              []Breakdown          `json:"by_line"`
	ByEquipment         []Breakdown          `json:"by_equipment"`
}

// CatalogLookup resolves an item id against the current catalog
type CatalogLookup func(itemID string) (model.ConsumableItem, bool)

// CatalogIndex builds a CatalogLookup over a slice of items
func CatalogIndex(items []model.ConsumableItem) CatalogLookup {
	idx := make(map[string]model.ConsumableItem, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}
	return func(id string) (model.ConsumableItem, bool) {
		it, ok := idx[id]
		return it, ok
	}
}

// Aggregator groups request logs into report rows. Names are sorted with the
// collation rules of its language.
type Aggregator struct {
	tag language.Tag
}

// NewAggregator returns an Aggregator collating with the given language
func NewAggregator(tag language.Tag) *Aggregator {
	return &Aggregator{tag: tag}
}

type groupKey struct {
	itemID string
	date   string
}

type group struct {
	row      Row
	lineIdx  map[string]int
	equipIdx map[string]int
}

// Aggregate filters logs to the window, groups them by item and delivery date
// and returns the rows sorted by item name then delivery date. Groups whose item
// is no longer in the catalog are dropped.
func (a *Aggregator) Aggregate(logs []model.RequestLog, lookup CatalogLookup, window period.Range) []Row {
	groups := make(map[groupKey]*group)
	var order []groupKey

	for _, l := range logs {
		if !window.Contains(l.Timestamp) {
			continue
		}

		key := groupKey{itemID: l.ItemID, date: l.DesiredDeliveryDate}
		if key.date == "" {
			key.date = noDate
		}

		g, ok := groups[key]
		if !ok {
			item, found := lookup(l.ItemID)
			if !found {
				continue
			}
			g = &group{
				row: Row{
					Item:                item,
					DesiredDeliveryDate: l.DesiredDeliveryDate,
					TotalCost:           decimal.Zero,
					ByLine:              []Breakdown{},
					ByEquipment:         []Breakdown{},
				},
				lineIdx:  make(map[string]int),
				equipIdx: make(map[string]int),
			}
			groups[key] = g
			order = append(order, key)
		}

		g.row.TotalQuantity += l.Quantity
		g.row.TotalCost = g.row.TotalCost.Add(l.TotalCost)
		g.row.ByLine = addBreakdown(g.row.ByLine, g.lineIdx, l.Line, l.Quantity)
		if l.EquipmentCode != "" {
			g.row.ByEquipment = addBreakdown(g.row.ByEquipment, g.equipIdx, l.EquipmentCode, l.Quantity)
		}
	}

	rows := make([]Row, 0, len(order))
	for _, k := range order {
		rows = append(rows, groups[k].row)
	}
	a.sortRows(rows)
	return rows
}

func addBreakdown(list []Breakdown, idx map[string]int, label string, qty int) []Breakdown {
	if i, ok := idx[label]; ok {
		list[i].Quantity += qty
		return list
	}
	idx[label] = len(list)
	return append(list, Breakdown{Label: label, Quantity: qty})
}

func (a *Aggregator) sortRows(rows []Row) {
	// Collators keep internal buffers, so each call gets its own.
	col := collate.New(a.tag)
	sort.SliceStable(rows, func(i, j int) bool {
		if c := col.CompareString(rows[i].Item.Name, rows[j].Item.Name); c != 0 {
			return c < 0
		}
		di, dj := rows[i].DesiredDeliveryDate, rows[j].DesiredDeliveryDate
		switch {
		case di != "" && dj == "":
			return true
		case di == "" && dj != "":
			return false
		default:
			return di < dj
		}
	})
}
