package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"consumables/internal/model"
	"consumables/internal/period"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestReportService_AggregateAndExport(t *testing.T) {
	ctx := context.Background()
	store, reqs, _ := newRequestFixture(t)
	svc := NewReportService(store, time.UTC, language.Korean)

	_, err := reqs.Submit(ctx, SubmitRequest{Line: "Press1", EquipmentCode: "EQ-7", DesiredDeliveryDate: "2024-01-20",
		Items: []CartItemRequest{{ItemID: "Z0102-00035", Quantity: 2}, {ItemID: "G-01", Quantity: 1}}})
	require.NoError(t, err)
	_, err = reqs.Submit(ctx, SubmitRequest{Line: "Weld2", DesiredDeliveryDate: "2024-01-20",
		Items: []CartItemRequest{{ItemID: "Z0102-00035", Quantity: 1}}})
	require.NoError(t, err)

	agg, err := svc.Aggregate(ctx, period.Week, submittedAt)
	require.NoError(t, err)
	require.Len(t, agg.Rows, 2)
	assert.Equal(t, "Bearing", agg.Rows[0].Item.Name)
	assert.Equal(t, 3, agg.Rows[0].TotalQuantity)
	assert.True(t, price("1560000").Equal(agg.Rows[0].TotalCost))
	assert.Equal(t, "Press1", agg.Rows[0].ByLine[0].Label)
	assert.Equal(t, 4, agg.TotalQuantity)
	assert.True(t, price("1561250.5").Equal(agg.TotalCost))

	file, err := svc.Export(ctx, period.Week, submittedAt, true)
	require.NoError(t, err)
	assert.Equal(t, "consumables_2024-01-W2.csv", file.FileName)
	require.True(t, bytes.HasPrefix(file.Data, []byte("\ufeff")))

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(file.Data, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Len(t, records[0], 11)
}

func TestReportService_EmptyWindow(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newRequestFixture(t)
	svc := NewReportService(store, time.UTC, language.Korean)

	agg, err := svc.Aggregate(ctx, period.Month, submittedAt)
	require.NoError(t, err)
	assert.NotNil(t, agg.Rows)
	assert.Empty(t, agg.Rows)
	assert.True(t, agg.TotalCost.IsZero())

	file, err := svc.Export(ctx, period.Month, submittedAt, false)
	require.NoError(t, err)
	assert.Equal(t, "consumables_2024-01.csv", file.FileName)
	assert.Empty(t, file.Data)
}

func TestReportService_OrphanedLogsDropped(t *testing.T) {
	ctx := context.Background()
	store, reqs, _ := newRequestFixture(t)
	svc := NewReportService(store, time.UTC, language.Korean)

	_, err := reqs.Submit(ctx, SubmitRequest{Line: "Press1",
		Items: []CartItemRequest{{ItemID: "Z0102-00035", Quantity: 2}, {ItemID: "G-01", Quantity: 1}}})
	require.NoError(t, err)
	require.NoError(t, store.Items.ReplaceAll(ctx, []model.ConsumableItem{{ID: "G-01", Name: "Glove", Price: price("1250.50")}}))

	agg, err := svc.Aggregate(ctx, period.Week, submittedAt)
	require.NoError(t, err)
	require.Len(t, agg.Rows, 1)
	assert.Equal(t, "G-01", agg.Rows[0].Item.ID)

	trends, err := svc.Trends(ctx, 5)
	require.NoError(t, err)
	assert.True(t, price("1041250.5").Equal(trends.TotalCost))
	require.Len(t, trends.ByLine, 1)
	assert.Equal(t, "Press1", trends.ByLine[0].Line)
	require.Len(t, trends.ByMonth, 1)
	assert.Equal(t, "2024-01", trends.ByMonth[0].Month)
}
