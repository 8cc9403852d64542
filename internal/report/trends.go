package report

import (
	"sort"
	"time"

	"consumables/internal/model"

	"github.com/shopspring/decimal"
)

// LineSpend is the total requested cost attributed to a production line
type LineSpend struct {
	Line      string          `json:"line"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Quantity  int             `json:"quantity"`
}

// MonthSpend is the total requested cost within a calendar month ("YYYY-MM")
type MonthSpend struct {
	Month     string          `json:"month"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Requests  int             `json:"requests"`
}

// ItemSpend ranks items by total requested cost
type ItemSpend struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Quantity  int             `json:"quantity"`
}

// Trends summarizes the whole request log
type Trends struct {
	TotalCost decimal.Decimal `json:"total_cost"`
	ByLine    []LineSpend     `json:"by_line"`
	ByMonth   []MonthSpend    `json:"by_month"`
	TopItems  []ItemSpend     `json:"top_items"`
}

// ComputeTrends aggregates spend over all logs using their snapshot costs.
// Months are bucketed in loc. topN <= 0 keeps every item.
func ComputeTrends(logs []model.RequestLog, loc *time.Location, topN int) Trends {
	byLine := make(map[string]*LineSpend)
	byMonth := make(map[string]*MonthSpend)
	byItem := make(map[string]*ItemSpend)
	latestName := make(map[string]time.Time)
	total := decimal.Zero

	for _, l := range logs {
		total = total.Add(l.TotalCost)

		ls, ok := byLine[l.Line]
		if !ok {
			ls = &LineSpend{Line: l.Line, TotalCost: decimal.Zero}
			byLine[l.Line] = ls
		}
		ls.TotalCost = ls.TotalCost.Add(l.TotalCost)
		ls.Quantity += l.Quantity

		month := l.Timestamp.In(loc).Format("2006-01")
		ms, ok := byMonth[month]
		if !ok {
			ms = &MonthSpend{Month: month, TotalCost: decimal.Zero}
			byMonth[month] = ms
		}
		ms.TotalCost = ms.TotalCost.Add(l.TotalCost)
		ms.Requests++

		is, ok := byItem[l.ItemID]
		if !ok {
			is = &ItemSpend{ItemID: l.ItemID, TotalCost: decimal.Zero}
			byItem[l.ItemID] = is
		}
		is.TotalCost = is.TotalCost.Add(l.TotalCost)
		is.Quantity += l.Quantity
		if seen, ok := latestName[l.ItemID]; !ok || l.Timestamp.After(seen) {
			latestName[l.ItemID] = l.Timestamp
			is.ItemName = l.ItemName
		}
	}

	t := Trends{
		TotalCost: total,
		ByLine:    make([]LineSpend, 0, len(byLine)),
		ByMonth:   make([]MonthSpend, 0, len(byMonth)),
		TopItems:  make([]ItemSpend, 0, len(byItem)),
	}
	for _, v := range byLine {
		t.ByLine = append(t.ByLine, *v)
	}
	for _, v := range byMonth {
		t.ByMonth = append(t.ByMonth, *v)
	}
	for _, v := range byItem {
		t.TopItems = append(t.TopItems, *v)
	}

	sort.Slice(t.ByLine, func(i, j int) bool {
		if c := t.ByLine[i].TotalCost.Cmp(t.ByLine[j].TotalCost); c != 0 {
			return c > 0
		}
		return t.ByLine[i].Line < t.ByLine[j].Line
	})
	sort.Slice(t.ByMonth, func(i, j int) bool {
		return t.ByMonth[i].Month < t.ByMonth[j].Month
	})
	sort.Slice(t.TopItems, func(i, j int) bool {
		if c := t.TopItems[i].TotalCost.Cmp(t.TopItems[j].TotalCost); c != 0 {
			return c > 0
		}
		return t.TopItems[i].ItemID < t.TopItems[j].ItemID
	})
	if topN > 0 && len(t.TopItems) > topN {
		t.TopItems = t.TopItems[:topN]
	}

	return t
}
