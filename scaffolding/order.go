package scaffolding

import "math"

// ordGap is the distance between neighbouring labels after a relabel.
const ordGap int64 = 1 << 32

const noSlot int32 = -1

// slot is a place in the topological order. Every live component holds one slot, and the label of that slot
// is the ord of the component. Slots are kept in a list sorted by label, so a component can be placed right
// after another one by picking a label between two neighbouring slots.
type slot struct {
	label      int64
	prev, next int32
	comp       ComponentID
}

// order is a list of slots with gapped labels. Labels only run out when many slots are inserted at the same
// place, in which case every slot is relabelled.
type order struct {
	slots      []slot
	free       []int32
	head, tail int32
	len        int
}

func newOrder() order {
	return order{head: noSlot, tail: noSlot}
}

func (o *order) label(s int32) int64 {
	return o.slots[s].label
}

// insertAfter links n new slots into the list directly after the slot passed, or at the front of the list
// if after is noSlot, and returns them in ascending order.
func (o *order) insertAfter(after int32, n int) []int32 {
	lo, hi := o.room(after, n)
	if hi-lo <= int64(n) || hi > math.MaxInt64/2 {
		o.relabel()
		lo, hi = o.room(after, n)
	}
	step := (hi - lo) / int64(n+1)

	next := o.head
	if after != noSlot {
		next = o.slots[after].next
	}
	out := make([]int32, n)
	prev := after
	for i := range out {
		s := o.alloc()
		o.slots[s] = slot{label: lo + step*int64(i+1), prev: prev, next: next, comp: NoComponent}
		if prev == noSlot {
			o.head = s
		} else {
			o.slots[prev].next = s
		}
		prev = s
		out[i] = s
	}
	if next == noSlot {
		o.tail = prev
	} else {
		o.slots[next].prev = prev
	}
	o.len += n
	return out
}

// room returns the labels of the slot passed and of the slot after it. Past the end of the list there is
// room for n slots at the regular gap.
func (o *order) room(after int32, n int) (lo, hi int64) {
	next := o.head
	if after != noSlot {
		lo, next = o.slots[after].label, o.slots[after].next
	}
	if next == noSlot {
		return lo, lo + ordGap*int64(n+1)
	}
	return lo, o.slots[next].label
}

func (o *order) alloc() int32 {
	if n := len(o.free); n > 0 {
		s := o.free[n-1]
		o.free = o.free[:n-1]
		return s
	}
	o.slots = append(o.slots, slot{})
	return int32(len(o.slots) - 1)
}

// unlink removes a slot from the list and frees it for reuse.
func (o *order) unlink(s int32) {
	sl := o.slots[s]
	if sl.prev == noSlot {
		o.head = sl.next
	} else {
		o.slots[sl.prev].next = sl.next
	}
	if sl.next == noSlot {
		o.tail = sl.prev
	} else {
		o.slots[sl.next].prev = sl.prev
	}
	o.slots[s] = slot{prev: noSlot, next: noSlot, comp: NoComponent}
	o.free = append(o.free, s)
	o.len--
}

// relabel spaces every label in the list ordGap apart, keeping their order.
func (o *order) relabel() {
	label := ordGap
	for s := o.head; s != noSlot; s = o.slots[s].next {
		o.slots[s].label = label
		label += ordGap
	}
}

// within reports whether at most limit slots follow s (or precede it, if forward is false) before the labels
// pass bound.
func (o *order) within(s int32, forward bool, bound int64, limit int) bool {
	for steps := 0; ; steps++ {
		if forward {
			s = o.slots[s].next
		} else {
			s = o.slots[s].prev
		}
		if s == noSlot || (forward && o.slots[s].label > bound) || (!forward && o.slots[s].label < bound) {
			return true
		}
		if steps >= limit {
			return false
		}
	}
}
