package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

func TestMemorySetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "k", item{Name: "Hat", Qty: 2}, 0))

	var got item
	hit, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, item{Name: "Hat", Qty: 2}, got)

	require.NoError(t, m.Delete(ctx, "k", "missing"))
	hit, err = m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", 1, time.Minute))
	now = now.Add(2 * time.Minute)

	var got int
	hit, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryStoresCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	lines := []item{{Name: "A", Qty: 1}}
	require.NoError(t, m.Set(ctx, "k", lines, 0))
	lines[0].Qty = 50

	var got []item
	_, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].Qty)
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"Hat"}, nil
	}

	first, err := Remember(ctx, m, "names", time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(ctx, m, "names", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestRememberPropagatesLoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Remember(context.Background(), NewMemory(), "x", 0, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}
