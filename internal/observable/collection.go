package observable

import "slices"

// Added is published after an item was appended to a Collection.
type Added[T any] struct {
	Owner    any
	Item     T
	Internal bool
	Owning   bool
}

// AddedItem returns the item as any. The bus uses it to find entities that
// just became reachable.
func (e Added[T]) AddedItem() any { return e.Item }

// IsInternal reports whether the mutation bypasses consistency behaviours.
func (e Added[T]) IsInternal() bool { return e.Internal }

// Removed is published after an item was removed from a Collection.
type Removed[T any] struct {
	Owner    any
	Item     T
	Internal bool
	Owning   bool
}

// RemovedItem returns the item as any.
func (e Removed[T]) RemovedItem() any { return e.Item }

// IsInternal reports whether the mutation bypasses consistency behaviours.
func (e Removed[T]) IsInternal() bool { return e.Internal }

// IsOwning reports whether the collection owns its items, as opposed to
// merely referencing items owned elsewhere.
func (e Removed[T]) IsOwning() bool { return e.Owning }

// Guard validates a mutation before it happens. A non-nil error aborts the
// mutation by panicking with that error.
type Guard[T any] func(item T) error

// Option configures a Collection.
type Option[T comparable] func(*Collection[T])

// NonOwning marks a collection as a set of references. Removals from it are
// not treated as the end of the item's life.
func NonOwning[T comparable]() Option[T] {
	return func(c *Collection[T]) { c.owning = false }
}

// GuardAdd installs a check that runs before every add.
func GuardAdd[T comparable](g Guard[T]) Option[T] {
	return func(c *Collection[T]) { c.beforeAdd = g }
}

// GuardRemove installs a check that runs before every remove of a present
// item.
func GuardRemove[T comparable](g Guard[T]) Option[T] {
	return func(c *Collection[T]) { c.beforeRemove = g }
}

// Collection is an ordered list without duplicates that publishes a
// notification for every mutation.
type Collection[T comparable] struct {
	owner        any
	owning       bool
	items        []T
	beforeAdd    Guard[T]
	beforeRemove Guard[T]
	added        *Channel[Added[T]]
	removed      *Channel[Removed[T]]
}

// NewCollection creates an empty owning collection for owner.
func NewCollection[T comparable](owner any, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		owner:   owner,
		owning:  true,
		added:   NewChannel[Added[T]](),
		removed: NewChannel[Removed[T]](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends item and publishes Added. Adding an item that is already
// present does nothing and returns false.
func (c *Collection[T]) Add(item T) bool {
	return c.add(item, false)
}

// AddInternal is Add flagged as internal.
func (c *Collection[T]) AddInternal(item T) bool {
	return c.add(item, true)
}

// Remove removes item and publishes Removed. Removing an absent item does
// nothing and returns false.
func (c *Collection[T]) Remove(item T) bool {
	return c.remove(item, false)
}

// RemoveInternal is Remove flagged as internal.
func (c *Collection[T]) RemoveInternal(item T) bool {
	return c.remove(item, true)
}

func (c *Collection[T]) add(item T, internal bool) bool {
	if c.Contains(item) {
		return false
	}
	if c.beforeAdd != nil {
		if err := c.beforeAdd(item); err != nil {
			panic(err)
		}
	}
	c.items = append(c.items, item)
	c.added.Publish(Added[T]{Owner: c.owner, Item: item, Internal: internal, Owning: c.owning})
	return true
}

func (c *Collection[T]) remove(item T, internal bool) bool {
	i := slices.Index(c.items, item)
	if i < 0 {
		return false
	}
	if c.beforeRemove != nil {
		if err := c.beforeRemove(item); err != nil {
			panic(err)
		}
	}
	c.items = slices.Concat(c.items[:i], c.items[i+1:])
	c.removed.Publish(Removed[T]{Owner: c.owner, Item: item, Internal: internal, Owning: c.owning})
	return true
}

// Items returns a copy of the items in insertion order.
func (c *Collection[T]) Items() []T {
	return slices.Clone(c.items)
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// At returns the item at index i.
func (c *Collection[T]) At(i int) T {
	return c.items[i]
}

// Contains reports whether item is present.
func (c *Collection[T]) Contains(item T) bool {
	return slices.Contains(c.items, item)
}

// IndexOf returns the position of item, or -1.
func (c *Collection[T]) IndexOf(item T) int {
	return slices.Index(c.items, item)
}

// Owning reports whether the collection owns its items.
func (c *Collection[T]) Owning() bool {
	return c.owning
}

// OnAdded returns the channel Added notifications are published on.
func (c *Collection[T]) OnAdded() *Channel[Added[T]] {
	return c.added
}

// OnRemoved returns the channel Removed notifications are published on.
func (c *Collection[T]) OnRemoved() *Channel[Removed[T]] {
	return c.removed
}

// Channels returns both notification channels.
func (c *Collection[T]) Channels() []Source {
	return []Source{c.added, c.removed}
}
