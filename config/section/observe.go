package section

import (
	"slices"

	"github.com/Descanonge/neba-sub001/config/trait"
)

// Change describes a modification of a trait value.
// Key is relative to the section the observer is registered on.
type Change struct {
	Key string
	Old any
	New any
}

type observer struct {
	fn    func(Change)
	batch func([]Change)
}

type pendingChange struct {
	origin *Section
	change Change
}

// Observe registers fn to be called after any trait of this section or of its
// sub-sections changes value. It returns a function removing the observer.
func (s *Section) Observe(fn func(Change)) (cancel func()) {
	return s.addObserver(&observer{fn: fn})
}

// ObserveBatch registers fn to be called once per modification of the tree below
// s, with every change it made: a Set, or the whole of an Update, a Reset or a
// Hold. It returns a function removing the observer.
func (s *Section) ObserveBatch(fn func([]Change)) (cancel func()) {
	return s.addObserver(&observer{batch: fn})
}

func (s *Section) addObserver(o *observer) (cancel func()) {
	s.observers = append(s.observers, o)

	return func() {
		s.observers = slices.DeleteFunc(s.observers, func(other *observer) bool {
			return other == o
		})
	}
}

// Hold defers notifications of the whole tree below s until fn returns.
// Successive changes of a key are then reported once, from the first old value
// to the last new value, and not at all if they cancel out.
func (s *Section) Hold(fn func() error) error {
	s.holds++

	defer func() {
		s.holds--
		if s.holds == 0 {
			s.flush()
		}
	}()

	return fn()
}

func (s *Section) emit(c Change) {
	var holder *Section

	for cur := s; cur != nil; cur = cur.parent {
		if cur.holds > 0 {
			holder = cur
		}
	}

	if holder != nil {
		holder.pending = append(holder.pending, pendingChange{origin: s, change: c})

		return
	}

	var b batches

	s.deliver(c, &b)
	b.send()
}

// deliver calls the observers of s and of its ancestors, with keys made relative
// to each. Changes for batch observers are collected in b.
func (s *Section) deliver(c Change, b *batches) {
	key := c.Key

	for cur := s; cur != nil; cur = cur.parent {
		for _, o := range slices.Clone(cur.observers) {
			rel := Change{Key: key, Old: c.Old, New: c.New}
			if o.batch != nil {
				b.add(o, rel)

				continue
			}

			o.fn(rel)
		}

		key = cur.name + "." + key
	}
}

// batches groups the changes sent to each batch observer.
type batches struct {
	order   []*observer
	changes map[*observer][]Change
}

func (b *batches) add(o *observer, c Change) {
	if b.changes == nil {
		b.changes = make(map[*observer][]Change)
	}

	if _, ok := b.changes[o]; !ok {
		b.order = append(b.order, o)
	}

	b.changes[o] = append(b.changes[o], c)
}

func (b *batches) send() {
	for _, o := range b.order {
		o.batch(b.changes[o])
	}
}

func (s *Section) flush() {
	pending := s.pending
	s.pending = nil

	type slot struct {
		origin *Section
		key    string
	}

	var order []slot

	collapsed := make(map[slot]*Change)

	for _, p := range pending {
		k := slot{origin: p.origin, key: p.change.Key}

		if c, ok := collapsed[k]; ok {
			c.New = p.change.New

			continue
		}

		c := p.change
		collapsed[k] = &c
		order = append(order, k)
	}

	var b batches

	for _, k := range order {
		c := collapsed[k]
		if trait.Equal(c.Old, c.New) {
			continue
		}

		k.origin.deliver(*c, &b)
	}

	b.send()
}
