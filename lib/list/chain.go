package list

import (
	"strconv"

	"github.com/benz9527/xchain/lib/infra"
)

var _ Chain[struct{}] = (*singlyChain[struct{}])(nil) // Type check assertion

type singlyChain[T comparable] struct {
	head link[T]
}

// NewChain returns a chain holding values in order.
func NewChain[T comparable](values ...T) Chain[T] {
	c := &singlyChain[T]{}
	c.pushBackValues(values)
	return c
}

func (c *singlyChain[T]) Clear() {
	c.head.take()
}

func (c *singlyChain[T]) IsEmpty() bool {
	return c.head.isNil()
}

func (c *singlyChain[T]) Len() int64 {
	var count int64
	for n := c.head.get(); n != nil; n = n.next.get() {
		count++
	}
	return count
}

func (c *singlyChain[T]) IsReadOnly() bool {
	return false
}

func (c *singlyChain[T]) AddFront(v T) {
	c.head.set(newChainNode(v, c.head.take()))
}

func (c *singlyChain[T]) RemoveFirst() {
	if first := c.head.take(); first != nil {
		c.head.set(first.next.take())
	}
}

// tail returns the last node or nil if the chain is empty.
func (c *singlyChain[T]) tail() *chainNode[T] {
	n := c.head.get()
	if n == nil {
		return nil
	}
	for !n.next.isNil() {
		n = n.next.get()
	}
	return n
}

func (c *singlyChain[T]) AddLast(v T) {
	last := c.tail()
	if last == nil {
		c.AddFront(v)
		return
	}
	last.spliceAfter(v)
}

func (c *singlyChain[T]) Add(v T) {
	c.AddLast(v)
}

func (c *singlyChain[T]) RemoveLast() {
	first := c.head.get()
	if first == nil {
		return
	} else if first.next.isNil() {
		c.RemoveFirst()
		return
	}
	// Stop at the second to last node.
	n := first
	for !n.next.get().next.isNil() {
		n = n.next.get()
	}
	n.next.take()
}

// nodeAt hops index times from the head. It returns nil if the chain ends first.
func (c *singlyChain[T]) nodeAt(index int64) *chainNode[T] {
	n := c.head.get()
	for i := int64(0); i < index && n != nil; i++ {
		n = n.next.get()
	}
	return n
}

func (c *singlyChain[T]) InsertAt(index int64, v T) error {
	count := c.Len()
	if index < 0 || index > count {
		return infra.WrapErrorStackWithMessage(ErrOutOfRange,
			"insert at "+strconv.FormatInt(index, 10)+" with len "+strconv.FormatInt(count, 10))
	}
	switch index {
	case 0:
		c.AddFront(v)
	case count:
		c.AddLast(v)
	default:
		c.nodeAt(index - 1).spliceAfter(v)
	}
	return nil
}

func (c *singlyChain[T]) RemoveAt(index int64) error {
	count := c.Len()
	if index < 0 || index >= count {
		return infra.WrapErrorStackWithMessage(ErrOutOfRange,
			"remove at "+strconv.FormatInt(index, 10)+" with len "+strconv.FormatInt(count, 10))
	}
	switch index {
	case 0:
		c.RemoveFirst()
	case count - 1:
		c.RemoveLast()
	default:
		c.nodeAt(index - 1).unlinkNext()
	}
	return nil
}

func (c *singlyChain[T]) Contains(v T) bool {
	return c.IndexOf(v) >= 0
}

func (c *singlyChain[T]) IndexOf(v T) int64 {
	var idx int64
	for n := c.head.get(); n != nil; n = n.next.get() {
		if n.value == v {
			return idx
		}
		idx++
	}
	return -1
}

func (c *singlyChain[T]) Remove(v T) bool {
	first := c.head.get()
	if first == nil {
		return false
	}
	if first.value == v {
		c.RemoveFirst()
		return true
	}
	// Stop at the node in front of the matched one.
	for n := first; !n.next.isNil(); n = n.next.get() {
		if n.next.get().value == v {
			n.unlinkNext()
			return true
		}
	}
	return false
}

func (c *singlyChain[T]) ReplaceData(target, replacement T) {
	if first := c.head.get(); first != nil && first.value == target {
		first.value = replacement
	}
}

func (c *singlyChain[T]) pushBackValues(values []T) {
	if len(values) <= 0 {
		return
	}
	last := c.tail()
	i := 0
	if last == nil {
		c.AddFront(values[0])
		last, i = c.head.get(), 1
	}
	for ; i < len(values); i++ {
		last = last.spliceAfter(values[i])
	}
}
