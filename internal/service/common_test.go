package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"consumables/internal/model"
	"consumables/internal/repository"
	"consumables/internal/repository/badgerstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	Name string
	Data interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Name: event, Data: data})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name)
	}
	return out
}

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := badgerstore.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return badgerstore.New(db)
}

func seedItems(t *testing.T, store repository.Store, items ...model.ConsumableItem) {
	t.Helper()
	require.NoError(t, store.Items.Upsert(context.Background(), items))
}

func seedReference(t *testing.T, store repository.Store, kind string, values ...string) {
	t.Helper()
	for _, v := range values {
		require.NoError(t, store.References.Create(context.Background(), &model.ReferenceEntry{Kind: kind, Value: v}))
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
