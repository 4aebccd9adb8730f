package cart

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/cache"
)

func line(id uint, qty int, price string) Line {
	return Line{
		ProductID:   id,
		ProductName: "product",
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
	}
}

func sum(c *Cart) decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines() {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func TestZeroCartIsEmpty(t *testing.T) {
	var c Cart
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Count())
	assert.True(t, c.Total().IsZero())
}

func TestAddMergesSameProduct(t *testing.T) {
	var c Cart
	assert.False(t, c.Add(line(1, 2, "10.00"), 99))
	assert.False(t, c.Add(line(1, 3, "10.00"), 99))

	require.Equal(t, 1, c.Count())
	assert.Equal(t, 5, c.Lines()[0].Quantity)
	assert.Equal(t, "50", c.Total().String())
}

func TestAddClampsMergedQuantity(t *testing.T) {
	var c Cart
	c.Add(line(1, 60, "1.00"), 99)
	clamped := c.Add(line(1, 60, "1.00"), 99)

	assert.True(t, clamped)
	assert.Equal(t, 99, c.Lines()[0].Quantity)
	assert.Equal(t, "99", c.Total().String())
}

func TestAddHugeQuantityOnMergeStaysClamped(t *testing.T) {
	var c Cart
	c.Add(line(1, 5, "10.00"), 99)

	assert.True(t, c.Add(line(1, math.MaxInt-2, "10.00"), 99))
	assert.Equal(t, 99, c.Lines()[0].Quantity)
	assert.Equal(t, "990", c.Total().String())

	assert.True(t, c.Add(line(1, math.MaxInt, "10.00"), 99))
	assert.Equal(t, 99, c.Lines()[0].Quantity)
}

func TestAddWithoutMaxSaturates(t *testing.T) {
	var c Cart
	c.Add(line(1, 5, "1.00"), 0)

	assert.False(t, c.Add(line(1, math.MaxInt, "1.00"), 0))
	assert.Equal(t, math.MaxInt, c.Lines()[0].Quantity)
	assert.True(t, c.Total().IsPositive())
}

func TestAddClampsNewLine(t *testing.T) {
	var c Cart
	assert.True(t, c.Add(line(1, 150, "2.50"), 99))
	assert.Equal(t, 99, c.Lines()[0].Quantity)
}

func TestAddKeepsSnapshotOfFirstAdd(t *testing.T) {
	var c Cart
	c.Add(line(1, 1, "10.00"), 99)
	c.Add(line(1, 1, "12.00"), 99)

	assert.True(t, c.Lines()[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, "20", c.Total().String())
}

func TestRemove(t *testing.T) {
	var c Cart
	c.Add(line(1, 2, "10.00"), 99)
	c.Add(line(2, 1, "5.00"), 99)

	removed, err := c.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, uint(1), removed.ProductID)
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, "5", c.Total().String())
}

func TestRemoveOutOfRangeLeavesCartUnchanged(t *testing.T) {
	var c Cart
	c.Add(line(1, 2, "10.00"), 99)
	before := c.Lines()

	for _, idx := range []int{1, 5, -1} {
		_, err := c.Remove(idx)
		assert.ErrorIs(t, err, ErrLineOutOfRange)
	}
	assert.Equal(t, before, c.Lines())
	assert.Equal(t, "20", c.Total().String())
}

func TestClear(t *testing.T) {
	var c Cart
	assert.ErrorIs(t, c.Clear(), ErrCartAlreadyEmpty)

	c.Add(line(1, 1, "3.00"), 99)
	require.NoError(t, c.Clear())
	assert.True(t, c.Empty())
	assert.True(t, c.Total().IsZero())
}

func TestTotalMatchesLinesAfterRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	prices := []string{"0.99", "10.00", "14.95", "39.99", "235.00"}

	var c Cart
	for i := 0; i < 500; i++ {
		if rng.Intn(3) == 0 && c.Count() > 0 {
			_, err := c.Remove(rng.Intn(c.Count() + 1))
			if err != nil {
				assert.ErrorIs(t, err, ErrLineOutOfRange)
			}
		} else {
			id := uint(rng.Intn(len(prices)))
			c.Add(line(id, 1+rng.Intn(40), prices[id]), 99)
		}
		require.True(t, c.Total().Equal(sum(&c)), "step %d", i)
		for _, l := range c.Lines() {
			require.LessOrEqual(t, l.Quantity, 99)
		}
	}
}

func TestJSONRoundTripRecomputesTotal(t *testing.T) {
	var c Cart
	c.Add(line(1, 2, "10.00"), 99)

	s := NewStore(cache.NewMemory(), 0)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "sid", &c))

	loaded, err := s.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, c.Lines()[0].ProductID, loaded.Lines()[0].ProductID)
	assert.Equal(t, "20", loaded.Total().String())
}

func TestStoreMissingCartIsEmpty(t *testing.T) {
	s := NewStore(cache.NewMemory(), 0)
	c, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestStoreSaveEmptyDeletes(t *testing.T) {
	mem := cache.NewMemory()
	s := NewStore(mem, 0)
	ctx := context.Background()

	var c Cart
	c.Add(line(1, 1, "1.00"), 99)
	require.NoError(t, s.Save(ctx, "sid", &c))
	require.NoError(t, c.Clear())
	require.NoError(t, s.Save(ctx, "sid", &c))

	var raw map[string]any
	hit, err := mem.Get(ctx, "cart:sid", &raw)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestLockerSerialisesPerSession(t *testing.T) {
	l := NewLocker()
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("sid")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, l.size())
}

func TestLockerSessionsIndependent(t *testing.T) {
	l := NewLocker()
	unlockA := l.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := l.Lock("b")
		unlock()
		close(done)
	}()
	<-done
}
