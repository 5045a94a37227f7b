package interaction

import (
	"container/list"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
	"github.com/couchcryptid/apartment-price-map/internal/render"
)

// DefaultSelectionCacheSize is how many filter results a Controller keeps.
const DefaultSelectionCacheSize = 32

// selection is the visible set for one filter snapshot with its projected markers.
type selection struct {
	records []domain.Record
	markers []render.Marker
}

type cached struct {
	params domain.FilterParams
	sel    selection
}

// selectionCache is an LRU of selections keyed by filter parameters, so moving a
// selector back to an earlier value skips the scan and projection. Stored selections
// are never mutated.
type selectionCache struct {
	size  int
	order *list.List // front is most recently used
	items map[domain.FilterParams]*list.Element
}

func newSelectionCache(size int) *selectionCache {
	if size <= 0 {
		size = DefaultSelectionCacheSize
	}
	return &selectionCache{
		size:  size,
		order: list.New(),
		items: make(map[domain.FilterParams]*list.Element),
	}
}

func (c *selectionCache) get(p domain.FilterParams) (selection, bool) {
	el, ok := c.items[p]
	if !ok {
		return selection{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cached).sel, true
}

func (c *selectionCache) put(p domain.FilterParams, sel selection) {
	if el, ok := c.items[p]; ok {
		el.Value.(*cached).sel = sel
		c.order.MoveToFront(el)
		return
	}
	c.items[p] = c.order.PushFront(&cached{params: p, sel: sel})
	if c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cached).params)
	}
}

func (c *selectionCache) len() int { return c.order.Len() }
