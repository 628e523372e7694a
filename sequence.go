package paging

import (
	"context"
	"iter"

	"github.com/friendsofgo/errors"
)

// Sequence is a lazily produced, single-pass stream of values.
//
// Next returns the next value, or Done once the stream is exhausted. Any other
// error comes from the underlying source and is returned unchanged. Sequences
// are not restartable; consuming one from two goroutines at once is undefined.
//
// Every endpoint iterator and every combinator in this package is a Sequence,
// so they compose freely:
//
//	history, _ := iterators.NewHistory(client, state, iterators.HistoryOptions{ChannelID: ch})
//	batches, _ := paging.Chunk(paging.Filter(history, notBot), 50)
//	err := paging.ForEach(ctx, batches, func(b []*model.Message) { archive(b) })
type Sequence[T any] interface {
	Next(ctx context.Context) (T, error)
}

// SequenceFunc adapts a plain function to the Sequence interface.
type SequenceFunc[T any] func(ctx context.Context) (T, error)

// Next calls f(ctx).
func (f SequenceFunc[T]) Next(ctx context.Context) (T, error) {
	return f(ctx)
}

type sliceSequence[T any] struct {
	items []T
	pos   int
}

// FromSlice returns a Sequence over the given items.
func FromSlice[T any](items []T) Sequence[T] {
	return &sliceSequence[T]{items: items}
}

func (s *sliceSequence[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if s.pos >= len(s.items) {
		return zero, Done
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}

// Empty returns a Sequence that is exhausted from the start.
func Empty[T any]() Sequence[T] {
	return SequenceFunc[T](func(context.Context) (T, error) {
		var zero T
		return zero, Done
	})
}

// Collect drains seq into a slice.
func Collect[T any](ctx context.Context, seq Sequence[T]) ([]T, error) {
	var items []T
	for {
		item, err := seq.Next(ctx)
		if errors.Is(err, Done) {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
}

// All adapts seq for range-over-func. A source error is yielded once with a
// zero value, after which iteration stops.
//
//	for msg, err := range paging.All(ctx, history) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(msg.Content)
//	}
func All[T any](ctx context.Context, seq Sequence[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := seq.Next(ctx)
			if errors.Is(err, Done) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}
