package ordering

import (
	"testing"
	"time"

	"consumables/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bearing = model.ConsumableItem{ID: "Z0102-00035", Name: "Bearing", Price: decimal.NewFromInt(520000)}
var glove = model.ConsumableItem{ID: "G-01", Name: "Glove", Price: decimal.RequireFromString("1250.50")}

func TestBuild(t *testing.T) {
	now := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	logs, err := Build(Submission{
		RequesterID:         "floor-user",
		Line:                " Press1 ",
		EquipmentCode:       "EQ-7",
		DesiredDeliveryDate: "2024-01-20",
		Cart:                []CartLine{{Item: bearing, Quantity: 2}, {Item: glove, Quantity: 4}},
	}, now)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, "Z0102-00035", logs[0].ItemID)
	assert.Equal(t, "Bearing", logs[0].ItemName)
	assert.True(t, decimal.NewFromInt(1040000).Equal(logs[0].TotalCost))
	assert.True(t, decimal.RequireFromString("5002").Equal(logs[1].TotalCost))

	assert.NotEqual(t, logs[0].ID, logs[1].ID)
	for _, l := range logs {
		assert.Equal(t, now, l.Timestamp)
		assert.Equal(t, "Press1", l.Line)
		assert.Equal(t, "EQ-7", l.EquipmentCode)
		assert.Equal(t, "2024-01-20", l.DesiredDeliveryDate)
		assert.Equal(t, "floor-user", l.RequesterID)
	}
}

func TestBuild_Rejects(t *testing.T) {
	now := time.Now()

	_, err := Build(Submission{Line: "Press1"}, now)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = Build(Submission{Line: "  ", Cart: []CartLine{{Item: bearing, Quantity: 1}}}, now)
	assert.ErrorIs(t, err, ErrLineRequired)

	_, err = Build(Submission{Line: "Press1", Cart: []CartLine{{Item: bearing, Quantity: 0}}}, now)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Build(Submission{Line: "Press1", DesiredDeliveryDate: "20/01/2024", Cart: []CartLine{{Item: bearing, Quantity: 1}}}, now)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestRequantify(t *testing.T) {
	logs, err := Build(Submission{Line: "Press1", Cart: []CartLine{{Item: bearing, Quantity: 2}}}, time.Now())
	require.NoError(t, err)
	l := logs[0]

	require.NoError(t, Requantify(&l, 3, bearing.Price))
	assert.Equal(t, 3, l.Quantity)
	assert.True(t, decimal.NewFromInt(1560000).Equal(l.TotalCost))
	assert.Equal(t, "Z0102-00035", l.ItemID)
	assert.Equal(t, "Bearing", l.ItemName)

	assert.ErrorIs(t, Requantify(&l, -1, bearing.Price), ErrInvalidQuantity)
	assert.Equal(t, 3, l.Quantity)
}

func TestUnitPriceOf(t *testing.T) {
	l := model.RequestLog{Quantity: 2, TotalCost: decimal.NewFromInt(1040000)}
	assert.True(t, decimal.NewFromInt(520000).Equal(UnitPriceOf(l)))
	assert.True(t, UnitPriceOf(model.RequestLog{}).IsZero())
}
