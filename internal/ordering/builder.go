// Package ordering turns a user's cart into request log records.
package ordering

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"consumables/internal/model"
	"consumables/internal/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrLineRequired    = errors.New("a production line must be selected")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrInvalidDate     = errors.New("desired delivery date must be YYYY-MM-DD")
)

// CartLine is one item and the quantity requested for it
type CartLine struct {
	Item     model.ConsumableItem
	Quantity int
}

// Submission is everything a user selects before submitting a request
type Submission struct {
	RequesterID         string
	Line                string
	EquipmentCode       string
	DesiredDeliveryDate string
	Cart                []CartLine
}

// LineCost is the cost of qty units at the given unit price
func LineCost(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// Build produces one RequestLog per cart line. All records share the timestamp,
// line, equipment code and delivery date; each carries a snapshot of the item
// name and its own total cost.
func Build(sub Submission, now time.Time) ([]model.RequestLog, error) {
	if len(sub.Cart) == 0 {
		return nil, ErrEmptyCart
	}
	line := strings.TrimSpace(sub.Line)
	if line == "" {
		return nil, ErrLineRequired
	}

	date := strings.TrimSpace(sub.DesiredDeliveryDate)
	if date != "" {
		if _, err := time.Parse(period.DateLayout, date); err != nil {
			return nil, ErrInvalidDate
		}
	}

	logs := make([]model.RequestLog, 0, len(sub.Cart))
	for _, c := range sub.Cart {
		if c.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %s", ErrInvalidQuantity, c.Item.ID)
		}
		logs = append(logs, model.RequestLog{
			ID:                  uuid.New(),
			RequesterID:         sub.RequesterID,
			Line:                line,
			EquipmentCode:       strings.TrimSpace(sub.EquipmentCode),
			ItemID:              c.Item.ID,
			ItemName:            c.Item.Name,
			Quantity:            c.Quantity,
			TotalCost:           LineCost(c.Item.Price, c.Quantity),
			Timestamp:           now,
			DesiredDeliveryDate: date,
		})
	}
	return logs, nil
}

// Requantify changes an entry's quantity and recomputes its total cost at unitPrice.
// The item id and name snapshot are left untouched.
func Requantify(entry *model.RequestLog, qty int, unitPrice decimal.Decimal) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	entry.Quantity = qty
	entry.TotalCost = LineCost(unitPrice, qty)
	return nil
}

// UnitPriceOf recovers the unit price a log was billed at
func UnitPriceOf(entry model.RequestLog) decimal.Decimal {
	if entry.Quantity <= 0 {
		return decimal.Zero
	}
	return entry.TotalCost.Div(decimal.NewFromInt(int64(entry.Quantity)))
}
