package list

// appendAfter links v after last, or makes it the head if last is nil.
func (c *singlyChain[T]) appendAfter(last *chainNode[T], v T) *chainNode[T] {
	if last == nil {
		c.AddFront(v)
		return c.head.get()
	}
	return last.spliceAfter(v)
}

func (c *singlyChain[T]) EveryNth(n int64) Chain[T] {
	nth := &singlyChain[T]{}
	first := c.head.get()
	if first == nil {
		return nth
	} else if n == 0 {
		nth.AddFront(first.value)
		return nth
	}

	if count := c.Len(); n >= count {
		// Cyclic index, a single element only.
		nth.AddFront(c.nodeAt(n % count).value)
		return nth
	}

	var (
		last *chainNode[T]
		idx  int64
	)
	for node := first; node != nil; node = node.next.get() {
		if idx%n == 0 {
			last = nth.appendAfter(last, node.value)
		}
		idx++
	}
	return nth
}

func (c *singlyChain[T]) InsertInterleaved(other Chain[T]) {
	if other == nil {
		return
	}
	// Snapshot first, other may be c itself.
	values := other.ToSlice()
	if len(values) <= 0 {
		return
	}

	half := c.Len() / 2
	if half == 0 {
		c.pushBackValues(values)
		return
	}
	at := c.nodeAt(half - 1)
	for _, v := range values {
		at = at.spliceAfter(v)
	}
}

func (c *singlyChain[T]) InsertRange(index int64, items ...T) {
	if index < 0 || len(items) <= 0 {
		return
	}
	if index == 0 || c.IsEmpty() {
		for i := len(items) - 1; i >= 0; i-- {
			c.AddFront(items[i])
		}
		return
	}

	// The hop counter starts from 1 and the walk stops at the last node,
	// so the index must be in [1, Len()-1] to be reached.
	hop := int64(1)
	for n := c.head.get(); !n.next.isNil(); n = n.next.get() {
		if hop == index {
			for _, v := range items {
				n = n.spliceAfter(v)
			}
			return
		}
		hop++
	}
}

func (c *singlyChain[T]) RemoveRange(start, count int64) bool {
	if c.IsEmpty() || start < 0 || count < 0 {
		return false
	}

	if start == 0 {
		// The last remaining element is always kept.
		for i := int64(0); i < count && !c.head.get().next.isNil(); i++ {
			c.RemoveFirst()
		}
		return true
	}

	prev := c.nodeAt(start - 1)
	if prev == nil || prev.next.isNil() {
		return false
	}
	for i := int64(0); i < count && !prev.next.isNil(); i++ {
		prev.unlinkNext()
	}
	return true
}
