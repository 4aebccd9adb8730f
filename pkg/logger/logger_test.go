package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type memCollection struct {
	mu      sync.Mutex
	batches [][]Entry
}

func (m *memCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := make([]Entry, 0, len(docs))
	for _, d := range docs {
		batch = append(batch, d.(Entry))
	}
	m.batches = append(m.batches, batch)
	return &mongo.InsertManyResult{}, nil
}

func (m *memCollection) entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entry
	for _, b := range m.batches {
		out = append(out, b...)
	}
	return out
}

func TestMongoSinkKeepsWarningsAndAbove(t *testing.T) {
	col := &memCollection{}
	sink := newMongoSink(col, slog.LevelWarn, time.Hour)
	log := slog.New(sink).With("request_id", "req-1")

	log.Info("cart: add", "product_id", 3)
	log.Warn("catalog: image not saved", "file", "prod-0555-hat.png")
	log.WithGroup("order").Error("checkout failed", "id", 7)
	sink.Close()

	got := col.entries()
	require.Len(t, got, 2)
	assert.Equal(t, "WARN", got[0].Level)
	assert.Equal(t, "req-1", got[0].RequestID)
	assert.Equal(t, bson.M{"file": "prod-0555-hat.png"}, got[0].Fields)
	assert.Equal(t, "ERROR", got[1].Level)
	assert.Equal(t, bson.M{"order.id": int64(7)}, got[1].Fields)
}

func TestMongoSinkFlushesFullBatches(t *testing.T) {
	col := &memCollection{}
	sink := newMongoSink(col, slog.LevelWarn, time.Hour)
	log := slog.New(sink)

	for i := 0; i < sinkBatch+1; i++ {
		log.Warn("x")
	}
	sink.Close()
	sink.Close()

	require.Len(t, col.batches, 2)
	assert.Len(t, col.batches[0], sinkBatch)
	assert.Len(t, col.batches[1], 1)
}

func TestFanoutRespectsEachLevel(t *testing.T) {
	var debug, warn bytes.Buffer
	log := slog.New(fanout{
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}).With("request_id", "r")

	log.Info("listing cached")
	log.Warn("cache unavailable")

	assert.Contains(t, debug.String(), "listing cached")
	assert.Contains(t, debug.String(), "cache unavailable")
	assert.NotContains(t, warn.String(), "listing cached")
	assert.Contains(t, warn.String(), "request_id=r")
}
