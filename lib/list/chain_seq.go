package list

import (
	"fmt"
	"iter"
	"strings"
)

func (c *singlyChain[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		// Read the successor after yield, so the walk follows the live links.
		for n := c.head.get(); n != nil; n = n.next.get() {
			if !yield(n.value) {
				return
			}
		}
	}
}

func (c *singlyChain[T]) Foreach(fn func(idx int64, v T) error) error {
	if fn == nil {
		return nil
	}
	var idx int64
	for v := range c.All() {
		if err := fn(idx, v); err != nil {
			return err
		}
		idx++
	}
	return nil
}

func (c *singlyChain[T]) ToSlice() []T {
	values := make([]T, 0, 8)
	for v := range c.All() {
		values = append(values, v)
	}
	return values
}

func (c *singlyChain[T]) CopyTo(dst []T, offset int) int {
	if offset < 0 || offset >= len(dst) {
		return 0
	}
	copied := 0
	for v := range c.All() {
		if offset+copied >= len(dst) {
			break
		}
		dst[offset+copied] = v
		copied++
	}
	return copied
}

func (c *singlyChain[T]) String() string {
	if c.IsEmpty() {
		return ""
	}
	builder := strings.Builder{}
	for v := range c.All() {
		if builder.Len() > 0 {
			_, _ = builder.WriteString(":")
		}
		_, _ = fmt.Fprint(&builder, v)
	}
	return builder.String()
}
