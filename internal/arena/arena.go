// Package arena stores id-keyed entities and iterates them in ascending id
// order so that every traversal of the world is reproducible.
package arena

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// Arena owns entities of type V keyed by K.
type Arena[K cmp.Ordered, V any] struct {
	items map[K]*V
	keys  []K
	dirty bool
}

func New[K cmp.Ordered, V any]() *Arena[K, V] {
	return &Arena[K, V]{
		items: make(map[K]*V),
	}
}

// Get returns the entity stored under id.
func (a *Arena[K, V]) Get(id K) (*V, bool) {
	v, ok := a.items[id]
	return v, ok
}

// Has reports whether id is stored.
func (a *Arena[K, V]) Has(id K) bool {
	_, ok := a.items[id]
	return ok
}

// Insert stores v under id. Reusing a live id is a programming error.
func (a *Arena[K, V]) Insert(id K, v V) *V {
	if _, ok := a.items[id]; ok {
		panic(fmt.Sprintf("arena: id %v is already used", id))
	}
	p := &v
	a.items[id] = p
	a.dirty = true
	return p
}

// Delete removes id and reports whether it was present.
func (a *Arena[K, V]) Delete(id K) bool {
	if _, ok := a.items[id]; !ok {
		return false
	}
	delete(a.items, id)
	a.dirty = true
	return true
}

func (a *Arena[K, V]) Len() int {
	return len(a.items)
}

// Keys returns the stored ids in ascending order. The slice is a copy.
func (a *Arena[K, V]) Keys() []K {
	return slices.Clone(a.sortedKeys())
}

func (a *Arena[K, V]) sortedKeys() []K {
	if a.dirty || len(a.keys) != len(a.items) {
		a.keys = a.keys[:0]
		for k := range a.items {
			a.keys = append(a.keys, k)
		}
		slices.Sort(a.keys)
		a.dirty = false
	}
	return a.keys
}

// All yields entities in ascending id order. Entities deleted during the
// iteration are skipped; entities inserted during it are not visited.
func (a *Arena[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for _, k := range a.Keys() {
			v, ok := a.items[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Values yields entities in ascending id order.
func (a *Arena[K, V]) Values() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for _, v := range a.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Clone copies the arena. fix, when set, is called on every copied value so
// reference fields can be copied too.
func (a *Arena[K, V]) Clone(fix func(*V)) *Arena[K, V] {
	c := New[K, V]()
	for k, v := range a.items {
		cp := *v
		if fix != nil {
			fix(&cp)
		}
		c.items[k] = &cp
	}
	c.dirty = true
	return c
}

// Allocator hands out ascending ids starting at one.
type Allocator[K ~int32 | ~int64 | ~int] struct {
	next K
}

// Next returns a fresh id.
func (a *Allocator[K]) Next() K {
	a.next++
	return a.next
}

// Observe makes sure future ids are larger than id.
func (a *Allocator[K]) Observe(id K) {
	if id > a.next {
		a.next = id
	}
}
