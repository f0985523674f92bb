// Package cart implements the persistent buy-request cart: a multiset of
// (name, model) lines with per-SKU quantity caps, totals, and the plain-text
// hand-off summary sent to the shop's messaging channel.
package cart

import (
	"fmt"
)

// Cap is the maximum quantity accepted per (name, model) SKU key.
const Cap = 10

// Line is one cart entry. Two additions of the same (name, model) coalesce
// into a single line with a summed quantity. Price 0 stands for "price
// unavailable" and contributes nothing to the total.
type Line struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Price int    `json:"price"`
	Qty   int    `json:"qty"`
}

// CapacityError reports a refused add/increment. The cart is unchanged when
// it is returned.
type CapacityError struct {
	Name  string
	Model string
	Cap   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s［%s］は合計%d枚までです", e.Name, e.Model, e.Cap)
}

var errNoSuchLine = fmt.Errorf("cart: no such line")

// Cart owns the line list and writes it through the Store after every
// mutation. It is confined to a single owner; there is no internal locking.
type Cart struct {
	store Store
	lines []Line
}

// New restores the cart from the store. Malformed persisted state comes
// back as an empty cart, never as an error.
func New(store Store) *Cart {
	return &Cart{store: store, lines: store.Load()}
}

// Lines returns a read-only snapshot of the cart.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count is the summed quantity over all lines (the badge number).
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

// Total sums price × quantity over all lines.
func (c *Cart) Total() int {
	t := 0
	for _, l := range c.lines {
		t += l.Price * l.Qty
	}
	return t
}

// skuTotal is the combined quantity across every line sharing the
// (name, model) key. Lines coalesce on add, so this is normally one line's
// quantity, but the cap must hold even over restored state that did not.
func (c *Cart) skuTotal(name, model string) int {
	n := 0
	for _, l := range c.lines {
		if l.Name == name && l.Model == model {
			n += l.Qty
		}
	}
	return n
}

// Add puts one copy of the item into the cart, coalescing with an existing
// line for the same (name, model). When the SKU is already at Cap the add
// is refused with a CapacityError and the cart is untouched.
func (c *Cart) Add(name, model string, price int) error {
	if c.skuTotal(name, model) >= Cap {
		return &CapacityError{Name: name, Model: model, Cap: Cap}
	}
	for i := range c.lines {
		if c.lines[i].Name == name && c.lines[i].Model == model {
			c.lines[i].Qty++
			return c.persist()
		}
	}
	c.lines = append(c.lines, Line{Name: name, Model: model, Price: price, Qty: 1})
	return c.persist()
}

// ChangeQuantity adjusts a line by delta. Increments are granted up to the
// SKU's remaining headroom and refused outright when none is left;
// decrements floor at 1 (Remove deletes a line).
func (c *Cart) ChangeQuantity(index, delta int) error {
	if index < 0 || index >= len(c.lines) {
		return errNoSuchLine
	}
	l := &c.lines[index]
	if delta > 0 {
		remaining := Cap - c.skuTotal(l.Name, l.Model)
		if remaining <= 0 {
			return &CapacityError{Name: l.Name, Model: l.Model, Cap: Cap}
		}
		if delta > remaining {
			delta = remaining
		}
		l.Qty += delta
	} else {
		l.Qty += delta
		if l.Qty < 1 {
			l.Qty = 1
		}
	}
	return c.persist()
}

// SetQuantity is the direct numeric-entry path: out-of-range values are
// silently clamped to [1, Cap] rather than refused, since the user is
// correcting a field, not triggering an incremental action.
func (c *Cart) SetQuantity(index, value int) error {
	if index < 0 || index >= len(c.lines) {
		return errNoSuchLine
	}
	if value < 1 {
		value = 1
	}
	if value > Cap {
		value = Cap
	}
	c.lines[index].Qty = value
	return c.persist()
}

// Remove deletes a line unconditionally.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.lines) {
		return errNoSuchLine
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return c.persist()
}

// Clear empties the cart. Confirming with the user first is the caller's
// concern.
func (c *Cart) Clear() error {
	c.lines = nil
	return c.persist()
}

func (c *Cart) persist() error {
	if err := c.store.Save(c.lines); err != nil {
		return fmt.Errorf("cart: persist: %w", err)
	}
	return nil
}
