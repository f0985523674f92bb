package engine

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/climaxcard/buylist/buylist/cart"
	"github.com/climaxcard/buylist/buylist/catalog"
	"github.com/climaxcard/buylist/buylist/search"
)

func intp(v int) *int { return &v }

func testController(n int) *Controller {
	cards := make([]catalog.Card, n)
	for i := range cards {
		cards[i] = catalog.Card{Name: fmt.Sprintf("カード%03d", i), Price: intp(i * 10)}
	}
	return New(catalog.BuildIndex(cards), 80, cart.New(&cart.MemoryStore{}))
}

func TestSnapshotPaging(t *testing.T) {
	ctl := testController(81)

	snap := ctl.Snapshot()
	if len(snap.PageItems) != 80 || snap.Page != 1 || snap.TotalPages != 2 {
		t.Fatalf("page 1 snapshot = %d items, page %d/%d", len(snap.PageItems), snap.Page, snap.TotalPages)
	}

	ctl.SetPage(2)
	snap = ctl.Snapshot()
	if len(snap.PageItems) != 1 || snap.Page != 2 {
		t.Errorf("page 2 snapshot = %d items, page %d", len(snap.PageItems), snap.Page)
	}

	// Requesting a page past the end clamps to the last page.
	ctl.SetPage(5)
	if snap := ctl.Snapshot(); snap.Page != 2 {
		t.Errorf("page clamped to %d, want 2", snap.Page)
	}
}

func TestQueryMutationResetsPage(t *testing.T) {
	ctl := testController(200)
	ctl.SetPage(3)

	ctl.SetNameQuery("カード")
	if snap := ctl.Snapshot(); snap.Page != 1 {
		t.Errorf("new query must reset to page 1, got %d", snap.Page)
	}

	ctl.SetPage(2)
	ctl.SetSort(search.SortPriceAsc)
	if snap := ctl.Snapshot(); snap.Page != 1 {
		t.Errorf("sort change must reset to page 1, got %d", snap.Page)
	}
}

func TestSnapshotCartState(t *testing.T) {
	ctl := testController(3)
	if err := ctl.Cart().Add("カード001", "", 500); err != nil {
		t.Fatal(err)
	}
	if err := ctl.Cart().SetQuantity(0, 3); err != nil {
		t.Fatal(err)
	}
	snap := ctl.Snapshot()
	if len(snap.CartLines) != 1 || snap.CartTotal != 1500 {
		t.Errorf("cart snapshot = %d lines, total %d; want 1 line, total 1500", len(snap.CartLines), snap.CartTotal)
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(30 * time.Millisecond)
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("10 rapid triggers ran the callback %d times, want 1", got)
	}

	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("stopped debouncer still fired (calls=%d)", got)
	}
}
