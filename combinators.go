package paging

import (
	"context"

	"github.com/friendsofgo/errors"
)

// Indexed pairs a value with its position, as produced by Enumerate.
type Indexed[T any] struct {
	Index int
	Value T
}

// Map returns a Sequence that applies f to every element of seq.
func Map[T, R any](seq Sequence[T], f func(T) R) Sequence[R] {
	return MapContext(seq, func(_ context.Context, item T) (R, error) {
		return f(item), nil
	})
}

// MapContext is Map for functions that block or can fail.
// An error from f is returned as-is from Next.
func MapContext[T, R any](seq Sequence[T], f func(context.Context, T) (R, error)) Sequence[R] {
	return SequenceFunc[R](func(ctx context.Context) (R, error) {
		item, err := seq.Next(ctx)
		if err != nil {
			var zero R
			return zero, err
		}
		return f(ctx, item)
	})
}

// Filter returns a Sequence of the elements of seq for which pred holds.
func Filter[T any](seq Sequence[T], pred func(T) bool) Sequence[T] {
	return FilterContext(seq, func(_ context.Context, item T) (bool, error) {
		return pred(item), nil
	})
}

// FilterContext is Filter for predicates that block or can fail.
func FilterContext[T any](seq Sequence[T], pred func(context.Context, T) (bool, error)) Sequence[T] {
	return SequenceFunc[T](func(ctx context.Context) (T, error) {
		var zero T
		for {
			item, err := seq.Next(ctx)
			if err != nil {
				return zero, err
			}
			ok, err := pred(ctx, item)
			if err != nil {
				return zero, err
			}
			if ok {
				return item, nil
			}
		}
	})
}

// Enumerate pairs every element of seq with a running index starting at start.
func Enumerate[T any](seq Sequence[T], start int) Sequence[Indexed[T]] {
	next := start
	return SequenceFunc[Indexed[T]](func(ctx context.Context) (Indexed[T], error) {
		item, err := seq.Next(ctx)
		if err != nil {
			return Indexed[T]{}, err
		}
		out := Indexed[T]{Index: next, Value: item}
		next++
		return out, nil
	})
}

type chunkSequence[T any] struct {
	seq  Sequence[T]
	size int
	done bool
}

// Chunk groups seq into batches of size elements. The final batch may be
// shorter; it is yielded once before the sequence reports Done.
// A size below 1 is rejected with a ParameterError.
func Chunk[T any](seq Sequence[T], size int) (Sequence[[]T], error) {
	if size <= 0 {
		return nil, NewParameterError("size", "chunk size must be greater than 0, got %d", size)
	}
	return &chunkSequence[T]{seq: seq, size: size}, nil
}

func (c *chunkSequence[T]) Next(ctx context.Context) ([]T, error) {
	if c.done {
		return nil, Done
	}
	batch := make([]T, 0, c.size)
	for len(batch) < c.size {
		item, err := c.seq.Next(ctx)
		if errors.Is(err, Done) {
			c.done = true
			break
		}
		if err != nil {
			return nil, err
		}
		batch = append(batch, item)
	}
	if len(batch) == 0 {
		return nil, Done
	}
	return batch, nil
}

// TakeWhile yields elements of seq while pred holds. The first failing
// element is withheld and the sequence ends for good; upstream is not read again.
func TakeWhile[T any](seq Sequence[T], pred func(T) bool) Sequence[T] {
	return TakeWhileContext(seq, func(_ context.Context, item T) (bool, error) {
		return pred(item), nil
	})
}

// TakeWhileContext is TakeWhile for predicates that block or can fail.
func TakeWhileContext[T any](seq Sequence[T], pred func(context.Context, T) (bool, error)) Sequence[T] {
	stopped := false
	return SequenceFunc[T](func(ctx context.Context) (T, error) {
		var zero T
		if stopped {
			return zero, Done
		}
		item, err := seq.Next(ctx)
		if err != nil {
			return zero, err
		}
		ok, err := pred(ctx, item)
		if err != nil {
			return zero, err
		}
		if !ok {
			stopped = true
			return zero, Done
		}
		return item, nil
	})
}

// DropWhile skips the leading elements of seq for which pred holds.
// Once one element fails pred, it and everything after it pass unconditionally.
func DropWhile[T any](seq Sequence[T], pred func(T) bool) Sequence[T] {
	return DropWhileContext(seq, func(_ context.Context, item T) (bool, error) {
		return pred(item), nil
	})
}

// DropWhileContext is DropWhile for predicates that block or can fail.
func DropWhileContext[T any](seq Sequence[T], pred func(context.Context, T) (bool, error)) Sequence[T] {
	dropping := true
	return SequenceFunc[T](func(ctx context.Context) (T, error) {
		var zero T
		for {
			item, err := seq.Next(ctx)
			if err != nil {
				return zero, err
			}
			if !dropping {
				return item, nil
			}
			drop, err := pred(ctx, item)
			if err != nil {
				return zero, err
			}
			if !drop {
				dropping = false
				return item, nil
			}
		}
	})
}

// Find returns the first element of seq for which pred holds, or def when the
// sequence is exhausted without a match.
func Find[T any](ctx context.Context, seq Sequence[T], pred func(T) bool, def T) (T, error) {
	return FindContext(ctx, seq, func(_ context.Context, item T) (bool, error) {
		return pred(item), nil
	}, def)
}

// FindContext is Find for predicates that block or can fail.
func FindContext[T any](ctx context.Context, seq Sequence[T], pred func(context.Context, T) (bool, error), def T) (T, error) {
	for {
		item, err := seq.Next(ctx)
		if errors.Is(err, Done) {
			return def, nil
		}
		if err != nil {
			return def, err
		}
		ok, err := pred(ctx, item)
		if err != nil {
			return def, err
		}
		if ok {
			return item, nil
		}
	}
}

// ForEach calls fn for every element of seq.
func ForEach[T any](ctx context.Context, seq Sequence[T], fn func(T)) error {
	return ForEachContext(ctx, seq, func(_ context.Context, item T) error {
		fn(item)
		return nil
	})
}

// ForEachContext calls fn for every element of seq, stopping at the first error.
func ForEachContext[T any](ctx context.Context, seq Sequence[T], fn func(context.Context, T) error) error {
	for {
		item, err := seq.Next(ctx)
		if errors.Is(err, Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(ctx, item); err != nil {
			return err
		}
	}
}

// Count drains seq and returns how many elements it produced.
func Count[T any](ctx context.Context, seq Sequence[T]) (int, error) {
	n := 0
	err := ForEach(ctx, seq, func(T) { n++ })
	return n, err
}
