package list

// link is the only way to own a chainNode.
// A node is referenced by exactly one link, either the head of the chain
// or the next link of its predecessor.
type link[T comparable] struct {
	node *chainNode[T]
}

func (l *link[T]) get() *chainNode[T] {
	return l.node
}

func (l *link[T]) isNil() bool {
	return l.node == nil
}

func (l *link[T]) set(n *chainNode[T]) {
	l.node = n
}

// take moves the node out and leaves the link empty.
func (l *link[T]) take() *chainNode[T] {
	n := l.node
	l.node = nil
	return n
}

type chainNode[T comparable] struct {
	next  link[T]
	value T
}

func newChainNode[T comparable](v T, next *chainNode[T]) *chainNode[T] {
	n := &chainNode[T]{value: v}
	n.next.set(next)
	return n
}

// spliceAfter links a fresh node holding v right after n.
func (n *chainNode[T]) spliceAfter(v T) *chainNode[T] {
	newN := newChainNode(v, n.next.take())
	n.next.set(newN)
	return newN
}

// unlinkNext releases the successor of n and returns it detached.
func (n *chainNode[T]) unlinkNext() *chainNode[T] {
	removed := n.next.take()
	if removed != nil {
		n.next.set(removed.next.take())
	}
	return removed
}
