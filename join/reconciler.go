// Package join reconciles keyed data against previously rendered marks.
//
// A Reconciler owns a side table from mark key to the value last rendered
// for that key. Each pass partitions the new data into enter, update and
// exit marks and then replaces the side table with the new data, so the
// next pass transitions from exactly what was drawn.
package join

import (
	"github.com/spektr-org/vizkit"
)

// Phase is the role of a mark within one reconcile pass.
type Phase int

const (
	PhaseEnter Phase = iota
	PhaseUpdate
	PhaseExit
)

func (p Phase) String() string {
	switch p {
	case PhaseEnter:
		return "enter"
	case PhaseUpdate:
		return "update"
	case PhaseExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Mark is one keyed element of a pass. From is the value the mark is drawn
// with at the start of a transition and To the value it settles on.
// Entering marks start at their first value (From == To); exiting marks
// keep their last value. Index is the position in the new data, or the
// previous render position for exiting marks.
type Mark[K comparable, V any] struct {
	Key   K
	Index int
	From  V
	To    V
	Phase Phase
}

// Result partitions one pass. Enter and Update follow the new data order;
// Exit follows the previous render order.
type Result[K comparable, V any] struct {
	Enter  []Mark[K, V]
	Update []Mark[K, V]
	Exit   []Mark[K, V]
}

// Merged returns enter and update marks together in new data order.
func (r Result[K, V]) Merged() []Mark[K, V] {
	out := make([]Mark[K, V], len(r.Enter)+len(r.Update))
	for _, m := range r.Enter {
		out[m.Index] = m
	}
	for _, m := range r.Update {
		out[m.Index] = m
	}
	return out
}

// Keys returns the keys bound after the pass, in new data order.
func (r Result[K, V]) Keys() []K {
	merged := r.Merged()
	keys := make([]K, len(merged))
	for i, m := range merged {
		keys[i] = m.Key
	}
	return keys
}

// Reconciler diffs successive datasets by key. It is owned by a single
// widget and is not safe for concurrent use.
type Reconciler[K comparable, V any] struct {
	name  string
	table map[K]V
	order []K
}

// New creates an empty reconciler. The name labels log output.
func New[K comparable, V any](name string) *Reconciler[K, V] {
	return &Reconciler[K, V]{
		name:  name,
		table: make(map[K]V),
	}
}

// Reconcile joins data against the marks rendered by the previous pass.
// key must be total and unique over data; on a duplicate the pass is
// rejected with a *DuplicateKeyError and the side table is left untouched.
func (r *Reconciler[K, V]) Reconcile(data []V, key func(V) K) (Result[K, V], error) {
	keys := make([]K, len(data))
	for i, d := range data {
		keys[i] = key(d)
	}
	seen, err := indexKeys(keys)
	if err != nil {
		return Result[K, V]{}, err
	}

	var res Result[K, V]
	for i, d := range data {
		k := keys[i]
		if prev, ok := r.table[k]; ok {
			res.Update = append(res.Update, Mark[K, V]{Key: k, Index: i, From: prev, To: d, Phase: PhaseUpdate})
		} else {
			res.Enter = append(res.Enter, Mark[K, V]{Key: k, Index: i, From: d, To: d, Phase: PhaseEnter})
		}
	}
	for i, k := range r.order {
		if _, ok := seen[k]; ok {
			continue
		}
		v := r.table[k]
		res.Exit = append(res.Exit, Mark[K, V]{Key: k, Index: i, From: v, To: v, Phase: PhaseExit})
	}

	table := make(map[K]V, len(data))
	for i, d := range data {
		table[keys[i]] = d
	}
	r.table = table
	r.order = keys

	vizkit.Logger().Debug("join: reconciled",
		"join", r.name,
		"enter", len(res.Enter),
		"update", len(res.Update),
		"exit", len(res.Exit))
	return res, nil
}

// Value returns the value last rendered for k.
func (r *Reconciler[K, V]) Value(k K) (V, bool) {
	v, ok := r.table[k]
	return v, ok
}

// Keys returns the rendered keys in render order.
func (r *Reconciler[K, V]) Keys() []K {
	out := make([]K, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of rendered marks.
func (r *Reconciler[K, V]) Len() int { return len(r.order) }

// Reset forgets every rendered mark. The next pass enters everything.
func (r *Reconciler[K, V]) Reset() {
	r.table = make(map[K]V)
	r.order = nil
}

// Unique reports the first repeated key as a *DuplicateKeyError. Widgets
// call it before touching scales so a rejected pass changes nothing.
func Unique[K comparable](keys []K) error {
	_, err := indexKeys(keys)
	return err
}

func indexKeys[K comparable](keys []K) (map[K]int, error) {
	seen := make(map[K]int, len(keys))
	for i, k := range keys {
		if first, dup := seen[k]; dup {
			return nil, &DuplicateKeyError{Key: k, First: first, Second: i}
		}
		seen[k] = i
	}
	return seen, nil
}
