package core

import (
	"fmt"
	"time"

	"github.com/huangsam/forecast/schema"
)

// Collection is a fixed-size, ordered group of items that are run together.
type Collection struct {
	items []*Item
}

// NewCollection returns a collection over the given items. Its size never changes.
func NewCollection(items ...*Item) *Collection {
	return &Collection{items: append([]*Item(nil), items...)}
}

// Len returns the number of slots.
func (c *Collection) Len() int { return len(c.items) }

// Items returns the items in slot order.
func (c *Collection) Items() []*Item {
	return append([]*Item(nil), c.items...)
}

// Get returns the item at loc.
func (c *Collection) Get(loc int) (*Item, error) {
	if loc < 0 || loc >= len(c.items) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrLocationOutOfRange, loc, len(c.items))
	}
	return c.items[loc], nil
}

// Find returns the first item with the given name.
func (c *Collection) Find(name string) (*Item, error) {
	for _, it := range c.items {
		if it.Name() == name {
			return it, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrItemNotFound, name)
}

// Update replaces the item at loc.
func (c *Collection) Update(loc int, item *Item) error {
	if loc < 0 || loc >= len(c.items) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrLocationOutOfRange, loc, len(c.items))
	}
	c.items[loc] = item
	return nil
}

// RunAll runs every item over [start, end] sequentially, in slot order.
func (c *Collection) RunAll(start, end time.Time) ([]*schema.Result, error) {
	results := make([]*schema.Result, 0, len(c.items))
	for _, it := range c.items {
		res, err := it.Run(start, end)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", it.Name(), err)
		}
		results = append(results, res)
	}
	return results, nil
}
