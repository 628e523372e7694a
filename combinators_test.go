package paging_test

import (
	"context"
	"errors"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/chat-paging-go"
)

var _ = Describe("Combinators", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("Map", func() {
		It("should apply a plain function", func() {
			seq := paging.Map(paging.FromSlice(ints(3)), strconv.Itoa)
			Expect(drain(ctx, seq)).To(Equal([]string{"1", "2", "3"}))
		})

		It("should accept a context-aware function and surface its error", func() {
			boom := errors.New("boom")
			seq := paging.MapContext(paging.FromSlice(ints(3)), func(_ context.Context, v int) (int, error) {
				if v == 2 {
					return 0, boom
				}
				return v * 10, nil
			})
			v, err := seq.Next(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(10))
			_, err = seq.Next(ctx)
			Expect(err).To(MatchError(boom))
		})
	})

	Describe("Filter", func() {
		It("should skip failing elements", func() {
			seq := paging.Filter(paging.FromSlice(ints(10)), func(v int) bool { return v%3 == 0 })
			Expect(drain(ctx, seq)).To(Equal([]int{3, 6, 9}))
		})

		It("should be empty when nothing passes", func() {
			seq := paging.FilterContext(paging.FromSlice(ints(5)), func(context.Context, int) (bool, error) {
				return false, nil
			})
			Expect(drain(ctx, seq)).To(BeEmpty())
		})
	})

	Describe("Enumerate", func() {
		It("should index from the given start", func() {
			seq := paging.Enumerate(paging.FromSlice([]string{"a", "b"}), 5)
			Expect(drain(ctx, seq)).To(Equal([]paging.Indexed[string]{
				{Index: 5, Value: "a"},
				{Index: 6, Value: "b"},
			}))
		})
	})

	Describe("Chunk", func() {
		DescribeTable("batch sizes",
			func(n, size int, expected []int) {
				seq, err := paging.Chunk(paging.FromSlice(ints(n)), size)
				Expect(err).ToNot(HaveOccurred())

				var sizes []int
				for _, batch := range drain(ctx, seq) {
					sizes = append(sizes, len(batch))
				}
				Expect(sizes).To(Equal(expected))
			},
			Entry("exact multiple", 6, 3, []int{3, 3}),
			Entry("short final batch", 7, 3, []int{3, 3, 1}),
			Entry("single partial batch", 2, 5, []int{2}),
			Entry("empty source", 0, 4, nil),
		)

		It("should preserve element order across batches", func() {
			seq, err := paging.Chunk(paging.FromSlice(ints(5)), 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(drain(ctx, seq)).To(Equal([][]int{{1, 2}, {3, 4}, {5}}))
		})

		DescribeTable("invalid sizes",
			func(size int) {
				_, err := paging.Chunk(paging.FromSlice(ints(3)), size)
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, paging.ErrInvalidParameter)).To(BeTrue())
				Expect(paging.IsParameterError(err)).To(BeTrue())
			},
			Entry("zero", 0),
			Entry("negative", -1),
		)

		It("should not read upstream again after the final batch", func() {
			upstream := &countingSequence[int]{inner: paging.FromSlice(ints(3))}
			seq, err := paging.Chunk[int](upstream, 2)
			Expect(err).ToNot(HaveOccurred())
			drain(ctx, seq)
			calls := upstream.calls

			_, err = seq.Next(ctx)
			Expect(err).To(MatchError(paging.Done))
			Expect(upstream.calls).To(Equal(calls))
		})
	})

	Describe("TakeWhile", func() {
		It("should stop at the first failing element and withhold it", func() {
			seq := paging.TakeWhile(paging.FromSlice([]int{1, 2, 5, 1, 2}), func(v int) bool { return v < 3 })
			Expect(drain(ctx, seq)).To(Equal([]int{1, 2}))
		})

		It("should not pull upstream once it has stopped", func() {
			upstream := &countingSequence[int]{inner: paging.FromSlice(ints(10))}
			seq := paging.TakeWhile[int](upstream, func(v int) bool { return v < 3 })
			drain(ctx, seq)
			Expect(upstream.calls).To(Equal(3))

			_, err := seq.Next(ctx)
			Expect(err).To(MatchError(paging.Done))
			Expect(upstream.calls).To(Equal(3))
		})
	})

	Describe("DropWhile", func() {
		It("should pass everything after the first failing element", func() {
			seq := paging.DropWhile(paging.FromSlice([]int{1, 2, 5, 1, 2}), func(v int) bool { return v < 3 })
			Expect(drain(ctx, seq)).To(Equal([]int{5, 1, 2}))
		})

		It("should complement TakeWhile", func() {
			data := []int{2, 4, 6, 7, 8, 9}
			even := func(v int) bool { return v%2 == 0 }

			taken := drain(ctx, paging.TakeWhile(paging.FromSlice(data), even))
			dropped := drain(ctx, paging.DropWhile(paging.FromSlice(data), even))
			Expect(append(taken, dropped...)).To(Equal(data))
		})
	})

	Describe("Find", func() {
		It("should return the first match", func() {
			v, err := paging.Find(ctx, paging.FromSlice(ints(10)), func(v int) bool { return v > 4 }, -1)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(5))
		})

		It("should return the default when nothing matches", func() {
			v, err := paging.Find(ctx, paging.FromSlice(ints(3)), func(v int) bool { return v > 4 }, -1)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(-1))
		})

		It("should surface predicate errors", func() {
			boom := errors.New("boom")
			_, err := paging.FindContext(ctx, paging.FromSlice(ints(3)), func(context.Context, int) (bool, error) {
				return false, boom
			}, 0)
			Expect(err).To(MatchError(boom))
		})
	})

	Describe("ForEach", func() {
		It("should visit every element", func() {
			sum := 0
			Expect(paging.ForEach(ctx, paging.FromSlice(ints(4)), func(v int) { sum += v })).To(Succeed())
			Expect(sum).To(Equal(10))
		})

		It("should stop at the first callback error", func() {
			boom := errors.New("boom")
			seen := 0
			err := paging.ForEachContext(ctx, paging.FromSlice(ints(5)), func(_ context.Context, v int) error {
				seen++
				if v == 2 {
					return boom
				}
				return nil
			})
			Expect(err).To(MatchError(boom))
			Expect(seen).To(Equal(2))
		})

		It("should return upstream errors unchanged", func() {
			boom := errors.New("boom")
			Expect(paging.ForEach(ctx, failingSequence(boom, 1), func(int) {})).To(MatchError(boom))
		})
	})

	Describe("Count", func() {
		It("should count every element", func() {
			n, err := paging.Count(ctx, paging.FromSlice(ints(7)))
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(7))
		})
	})
})
