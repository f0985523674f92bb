// Package engine is the single-owner controller over the query state, the
// result view and the cart. Every mutation goes through a named operation
// so the page-clamping and quantity-cap invariants are enforced in one
// place; consumers read the state only through Snapshot.
package engine

import (
	"github.com/climaxcard/buylist/buylist/cart"
	"github.com/climaxcard/buylist/buylist/catalog"
	"github.com/climaxcard/buylist/buylist/pagination"
	"github.com/climaxcard/buylist/buylist/search"
)

// Controller owns all mutable UI state. It is confined to one goroutine
// (run-to-completion event handling); it does no locking of its own.
type Controller struct {
	index    []catalog.IndexedCard
	query    search.Query
	view     []catalog.IndexedCard
	page     int
	pageSize int
	cart     *cart.Cart
}

// Snapshot is the read-only view handed to the render layer: the current
// page's ordered records, the page position, and the cart state.
type Snapshot struct {
	PageItems  []catalog.IndexedCard
	Page       int
	TotalPages int
	CartLines  []cart.Line
	CartTotal  int
}

func New(index []catalog.IndexedCard, pageSize int, c *cart.Cart) *Controller {
	ctl := &Controller{index: index, page: 1, pageSize: pageSize, cart: c}
	ctl.evaluate()
	return ctl
}

// evaluate recomputes the result view. A new query invalidates the prior
// pagination position, so the page always resets to 1.
func (c *Controller) evaluate() {
	c.view = search.Evaluate(c.index, c.query)
	c.page = 1
}

func (c *Controller) SetNameQuery(q string)   { c.query.Name = q; c.evaluate() }
func (c *Controller) SetCodeQuery(q string)   { c.query.Code = q; c.evaluate() }
func (c *Controller) SetPackQuery(q string)   { c.query.Pack = q; c.evaluate() }
func (c *Controller) SetRarityQuery(q string) { c.query.Rarity = q; c.evaluate() }

func (c *Controller) TogglePromoOnly()  { c.query.PromoOnly = !c.query.PromoOnly; c.evaluate() }
func (c *Controller) ToggleLatestOnly() { c.query.LatestOnly = !c.query.LatestOnly; c.evaluate() }

func (c *Controller) SetSort(s search.Sort) { c.query.Sort = s; c.evaluate() }

// SetPage moves to a page; out-of-range numbers clamp into
// [1, totalPages].
func (c *Controller) SetPage(n int) {
	c.page = pagination.Paginate(c.view, c.pageSize, n).Number
}

// Query returns the current query state (a copy).
func (c *Controller) Query() search.Query { return c.query }

// Results returns the full ordered result view.
func (c *Controller) Results() []catalog.IndexedCard { return c.view }

// Cart exposes the cart for its mutation operations.
func (c *Controller) Cart() *cart.Cart { return c.cart }

func (c *Controller) Snapshot() Snapshot {
	page := pagination.Paginate(c.view, c.pageSize, c.page)
	snap := Snapshot{
		PageItems:  page.Items,
		Page:       page.Number,
		TotalPages: page.TotalPages,
	}
	if c.cart != nil {
		snap.CartLines = c.cart.Lines()
		snap.CartTotal = c.cart.Total()
	}
	return snap
}
