package list

import "iter"

// Note that the chain is not thread safe.
// It is owned by a single goroutine and every positional operation is O(n),
// the length is never cached.

type ChainErr string

const (
	ErrOutOfRange ChainErr = "chain index out of range"
)

func (err ChainErr) Error() string {
	return string(err)
}

// Chain is a singly linked sequential container.
type Chain[T comparable] interface {
	// Clear discards all the elements.
	Clear()
	IsEmpty() bool
	// Len counts the elements by traversal.
	Len() int64
	IsReadOnly() bool

	// AddFront inserts v as the new head.
	AddFront(v T)
	// AddLast appends v after the last element.
	AddLast(v T)
	// Add is an alias of AddLast.
	Add(v T)
	// RemoveFirst drops the head. It is a no-op for an empty chain.
	RemoveFirst()
	// RemoveLast drops the last element. It is a no-op for an empty chain.
	RemoveLast()
	// InsertAt inserts v at the zero based index. The index must be
	// in [0, Len()], otherwise ErrOutOfRange is returned.
	InsertAt(index int64, v T) error
	// RemoveAt removes the element at the zero based index. The index must be
	// in [0, Len()), otherwise ErrOutOfRange is returned.
	RemoveAt(index int64) error

	Contains(v T) bool
	// IndexOf returns the position of the first element equal to v or -1.
	IndexOf(v T) int64
	// Remove removes the first element equal to v and reports whether
	// an element was removed.
	Remove(v T) bool
	// ReplaceData overwrites the head element with replacement if it equals target.
	// Only the head is inspected, the rest of the chain is left untouched.
	ReplaceData(target, replacement T)

	// EveryNth returns a new chain sampled from this one.
	//  n == 0: only the first element.
	//  n >= Len(): only the element at n mod Len().
	//  otherwise: every element whose index is a multiple of n.
	EveryNth(n int64) Chain[T]
	// InsertInterleaved inserts all the elements of other, in order, as a block
	// starting at Len()/2. If Len()/2 is 0 the elements are appended instead.
	// The other chain is only read.
	InsertInterleaved(other Chain[T])
	// InsertRange splices items after the index-th hop. A negative or
	// unreachable index is ignored. Index 0 or an empty chain prepends items.
	InsertRange(index int64, items ...T)
	// RemoveRange removes up to count elements starting from start.
	// Starting from 0 it never removes the last remaining element.
	// It returns false for an empty chain, a negative argument or a start
	// beyond the last element.
	RemoveRange(start, count int64) bool

	// All returns a lazy forward sequence over the live chain.
	All() iter.Seq[T]
	// Foreach traverses the chain and executes fn for each element.
	// If fn returns an error, the traversal stops and returns the error.
	Foreach(fn func(idx int64, v T) error) error
	ToSlice() []T
	// CopyTo copies the elements into dst starting at offset and returns
	// the number of copied elements, like the builtin copy.
	CopyTo(dst []T, offset int) int
	// String joins the elements with ":".
	String() string
}
