package service

import (
	"context"
	"testing"
	"time"

	"consumables/internal/model"
	"consumables/internal/period"
	"consumables/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var submittedAt = time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)

func newRequestFixture(t *testing.T) (repository.Store, *requestService, *recordingPublisher) {
	t.Helper()
	store := newTestStore(t)
	events := &recordingPublisher{}
	svc := NewRequestService(store, events, "floor-user").(*requestService)
	svc.now = fixedClock(submittedAt)

	seedItems(t, store,
		model.ConsumableItem{ID: "Z0102-00035", Name: "Bearing", Price: price("520000")},
		model.ConsumableItem{ID: "G-01", Name: "Glove", Price: price("1250.50")},
	)
	seedReference(t, store, model.RefKindLine, "Press1", "Weld2")
	seedReference(t, store, model.RefKindEquipmentCode, "EQ-7")
	return store, svc, events
}

func TestRequestService_SubmitAndEdit(t *testing.T) {
	ctx := context.Background()
	store, svc, events := newRequestFixture(t)

	logs, err := svc.Submit(ctx, SubmitRequest{
		Line:                "press1",
		EquipmentCode:       "eq-7",
		DesiredDeliveryDate: "2024-01-20",
		Items:               []CartItemRequest{{ItemID: "Z0102-00035", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	l := logs[0]
	assert.Equal(t, "Press1", l.Line)
	assert.Equal(t, "EQ-7", l.EquipmentCode)
	assert.Equal(t, "floor-user", l.RequesterID)
	assert.Equal(t, "Bearing", l.ItemName)
	assert.True(t, price("1040000").Equal(l.TotalCost))

	updated, err := svc.UpdateQuantity(ctx, "admin", l.ID.String(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.True(t, price("1560000").Equal(updated.TotalCost))
	assert.Equal(t, "Z0102-00035", updated.ItemID)
	assert.Equal(t, "Bearing", updated.ItemName)

	stored, err := store.Requests.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)
	assert.True(t, price("1560000").Equal(stored.TotalCost))

	assert.Equal(t, []string{EventRequestsCreated, EventRequestUpdated}, events.names())
}

func TestRequestService_SubmitOneLogPerCartLine(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newRequestFixture(t)

	logs, err := svc.Submit(ctx, SubmitRequest{
		RequesterID: "kim",
		Line:        "Weld2",
		Items: []CartItemRequest{
			{ItemID: "Z0102-00035", Quantity: 1},
			{ItemID: "G-01", Quantity: 4},
		},
	})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, logs[0].Timestamp, logs[1].Timestamp)
	assert.Equal(t, "kim", logs[1].RequesterID)
	assert.Empty(t, logs[1].EquipmentCode)
	assert.True(t, price("5002").Equal(logs[1].TotalCost))

	all, err := store.Requests.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRequestService_SubmitRejectsWithoutWriting(t *testing.T) {
	ctx := context.Background()
	store, svc, events := newRequestFixture(t)

	tests := []struct {
		name string
		req  SubmitRequest
	}{
		{"empty cart", SubmitRequest{Line: "Press1"}},
		{"unknown line", SubmitRequest{Line: "Paint9", Items: []CartItemRequest{{ItemID: "G-01", Quantity: 1}}}},
		{"unknown equipment", SubmitRequest{Line: "Press1", EquipmentCode: "EQ-0", Items: []CartItemRequest{{ItemID: "G-01", Quantity: 1}}}},
		{"unknown item", SubmitRequest{Line: "Press1", Items: []CartItemRequest{{ItemID: "G-01", Quantity: 1}, {ItemID: "NOPE", Quantity: 1}}}},
		{"zero quantity", SubmitRequest{Line: "Press1", Items: []CartItemRequest{{ItemID: "G-01", Quantity: 0}}}},
		{"bad date", SubmitRequest{Line: "Press1", DesiredDeliveryDate: "next week", Items: []CartItemRequest{{ItemID: "G-01", Quantity: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	all, err := store.Requests.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, events.names())
}

func TestRequestService_EditUsesLoggedPriceWhenItemLeftCatalog(t *testing.T) {
	ctx := context.Background()
	store, svc, _ := newRequestFixture(t)

	logs, err := svc.Submit(ctx, SubmitRequest{Line: "Press1", Items: []CartItemRequest{{ItemID: "G-01", Quantity: 2}}})
	require.NoError(t, err)

	require.NoError(t, store.Items.ReplaceAll(ctx, []model.ConsumableItem{{ID: "OTHER", Name: "Other", Price: price("1")}}))

	updated, err := svc.UpdateQuantity(ctx, "admin", logs[0].ID.String(), 5)
	require.NoError(t, err)
	assert.True(t, price("6252.5").Equal(updated.TotalCost))
	assert.Equal(t, "Glove", updated.ItemName)
}

func TestRequestService_UpdateQuantityErrors(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newRequestFixture(t)

	_, err := svc.UpdateQuantity(ctx, "admin", "not-a-uuid", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateQuantity(ctx, "admin", "8f14e45f-ceea-4671-9c4e-3f1b2a6f9a10", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	logs, err := svc.Submit(ctx, SubmitRequest{Line: "Press1", Items: []CartItemRequest{{ItemID: "G-01", Quantity: 2}}})
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, "admin", logs[0].ID.String(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRequestService_Delete(t *testing.T) {
	ctx := context.Background()
	store, svc, events := newRequestFixture(t)

	logs, err := svc.Submit(ctx, SubmitRequest{Line: "Press1", Items: []CartItemRequest{{ItemID: "G-01", Quantity: 2}}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "admin", logs[0].ID.String()))
	_, err = store.Requests.FindByID(ctx, logs[0].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "admin", logs[0].ID.String()), repository.ErrNotFound)
	assert.Contains(t, events.names(), EventRequestDeleted)

	audit, _, err := store.Audit.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, model.ActionDeleteRequest, audit[0].Action)
}

func TestRequestService_History(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newRequestFixture(t)

	// Wednesday 2024-01-10 falls in the week of Mon 01-08 .. Sun 01-14
	for _, at := range []time.Time{
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		submittedAt,
		time.Date(2024, 1, 14, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	} {
		svc.now = fixedClock(at)
		_, err := svc.Submit(ctx, SubmitRequest{Line: "Press1", Items: []CartItemRequest{{ItemID: "G-01", Quantity: 1}}})
		require.NoError(t, err)
	}

	res, err := svc.History(ctx, period.Week, submittedAt, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Total)
	require.Len(t, res.Logs, 2)
	assert.True(t, res.Logs[0].Timestamp.After(res.Logs[1].Timestamp))
	assert.True(t, price("3751.5").Equal(res.TotalCost))
	assert.Equal(t, "2024-01-W2", res.Period.Key)

	res, err = svc.History(ctx, period.Month, submittedAt, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 4, res.Total)
	assert.Len(t, res.Logs, 4)
	assert.Equal(t, 1, res.Page)
}

func TestRequestService_HistoryPagePastEnd(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newRequestFixture(t)

	_, err := svc.Submit(ctx, SubmitRequest{Line: "Press1", Items: []CartItemRequest{{ItemID: "G-01", Quantity: 1}}})
	require.NoError(t, err)

	for _, page := range []int{2, 1 << 62, int(^uint(0) >> 1)} {
		res, err := svc.History(ctx, period.Week, submittedAt, page, 1<<40)
		require.NoError(t, err)
		assert.Empty(t, res.Logs)
		assert.EqualValues(t, 1, res.Total)
		assert.LessOrEqual(t, res.Page, maxPage)
		assert.LessOrEqual(t, res.Limit, maxLimit)
	}
}
