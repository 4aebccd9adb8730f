// Package cart holds the per-session shopping cart: an ordered list of line
// items with a total that is recomputed after every mutation.
//
// A Cart is a plain value. Persistence lives in Store and serialisation of
// concurrent mutations for one session in Locker.
package cart

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrLineOutOfRange is returned by Remove for an index outside the cart.
	ErrLineOutOfRange = errors.New("cart: line index out of range")
	// ErrCartAlreadyEmpty is returned by Clear on an empty cart.
	ErrCartAlreadyEmpty = errors.New("cart: already empty")
)

// Line is one product in the cart. Name, image and price are captured when
// the line is first added and never refreshed from the catalog.
type Line struct {
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// Subtotal returns quantity × unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a session's cart. The zero value is an empty cart.
type Cart struct {
	lines []Line
	total decimal.Decimal
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count returns the number of lines.
func (c *Cart) Count() int { return len(c.lines) }

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool { return len(c.lines) == 0 }

// Total returns the sum of the line subtotals.
func (c *Cart) Total() decimal.Decimal { return c.total }

// Add merges line into the cart. A line for the same product has its
// quantity increased; otherwise line is appended as given. The resulting
// quantity is capped at max, and clamped reports whether that happened.
func (c *Cart) Add(line Line, max int) (clamped bool) {
	defer c.recompute()

	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			c.lines[i].Quantity, clamped = merge(c.lines[i].Quantity, line.Quantity, max)
			return clamped
		}
	}

	line.Quantity, clamped = clamp(line.Quantity, max)
	c.lines = append(c.lines, line)
	return clamped
}

// Remove deletes the line at index and returns it. An index outside
// [0, Count()) leaves the cart unchanged.
func (c *Cart) Remove(index int) (Line, error) {
	if index < 0 || index >= len(c.lines) {
		return Line{}, ErrLineOutOfRange
	}
	removed := c.lines[index]
	c.lines = append(c.lines[:index:index], c.lines[index+1:]...)
	c.recompute()
	return removed, nil
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	if c.Empty() {
		return ErrCartAlreadyEmpty
	}
	c.lines = nil
	c.recompute()
	return nil
}

func (c *Cart) recompute() {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	c.total = total
}

// merge adds extra to qty without overflowing int. The sum saturates at
// math.MaxInt when there is no max.
func merge(qty, extra, max int) (int, bool) {
	if max > 0 && extra > max-qty {
		return max, true
	}
	if extra > math.MaxInt-qty {
		return math.MaxInt, false
	}
	return qty + extra, false
}

func clamp(qty, max int) (int, bool) {
	if max > 0 && qty > max {
		return max, true
	}
	return qty, false
}

// wire is the serialised form. The total is derived again on decode.
type wire struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func (c Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(wire{Lines: lines, Total: c.total})
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.lines = w.Lines
	c.recompute()
	return nil
}
