package paging_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/chat-paging-go"
)

// mockSource serves consecutive ints from a pool of total items, honouring the
// requested limit, and records every limit it was asked for.
type mockSource struct {
	total     int
	served    int
	pageSizes []int // when set, caps each successive page
	requests  []int
	fetchErr  error
	failAt    int // transform fails on this value when > 0
}

func (m *mockSource) FetchPage(_ context.Context, limit int) (paging.PageResult[int], error) {
	m.requests = append(m.requests, limit)
	if m.fetchErr != nil {
		return paging.PageResult[int]{}, m.fetchErr
	}
	n := min(limit, m.total-m.served)
	if idx := len(m.requests) - 1; idx < len(m.pageSizes) {
		n = min(n, m.pageSizes[idx])
	}
	items := make([]int, n)
	for i := range items {
		m.served++
		items[i] = m.served
	}
	return paging.PageResult[int]{Items: items}, nil
}

func (m *mockSource) Transform(_ context.Context, raw int) (string, error) {
	if m.failAt > 0 && raw == m.failAt {
		return "", fmt.Errorf("bad item %d", raw)
	}
	return fmt.Sprintf("item-%d", raw), nil
}

func newPager(src *mockSource, cfg paging.PagerConfig[int]) *paging.Pager[int, string] {
	p, err := paging.NewPager[int, string](src, cfg)
	Expect(err).ToNot(HaveOccurred())
	return p
}

var _ = Describe("Pager", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("construction", func() {
		DescribeTable("rejects bad limits",
			func(limit int) {
				_, err := paging.NewPager[int, string](&mockSource{}, paging.PagerConfig[int]{
					Limit:       &limit,
					MaxPageSize: 100,
				})
				Expect(errors.Is(err, paging.ErrInvalidParameter)).To(BeTrue())
			},
			Entry("zero", 0),
			Entry("negative", -5),
		)

		It("should reject a zero page size", func() {
			_, err := paging.NewPager[int, string](&mockSource{}, paging.PagerConfig[int]{})
			Expect(paging.IsParameterError(err)).To(BeTrue())
		})

		It("should not fetch until the first Next", func() {
			src := &mockSource{total: 10}
			newPager(src, paging.PagerConfig[int]{MaxPageSize: 5})
			Expect(src.requests).To(BeEmpty())
		})
	})

	DescribeTable("yields min(limit, available) items",
		func(limit, available int) {
			src := &mockSource{total: available}
			p := newPager(src, paging.PagerConfig[int]{Limit: &limit, MaxPageSize: 100})
			Expect(drain(ctx, p)).To(HaveLen(min(limit, available)))
		},
		Entry("limit below available", 150, 500),
		Entry("limit above available", 500, 150),
		Entry("limit equals a page", 100, 100),
		Entry("nothing available", 10, 0),
	)

	It("should yield everything when unbounded", func() {
		src := &mockSource{total: 1234}
		p := newPager(src, paging.PagerConfig[int]{MaxPageSize: 100})
		items := drain(ctx, p)
		Expect(items).To(HaveLen(1234))
		Expect(items[0]).To(Equal("item-1"))
		Expect(items[1233]).To(Equal("item-1234"))
	})

	It("should cap requests at the remaining limit", func() {
		limit := 250
		src := &mockSource{total: 1000}
		p := newPager(src, paging.PagerConfig[int]{Limit: &limit, MaxPageSize: 100})
		drain(ctx, p)
		Expect(src.requests).To(Equal([]int{100, 100, 50}))
	})

	It("should stop after a short page without another fetch", func() {
		limit := 250
		src := &mockSource{total: 240}
		p := newPager(src, paging.PagerConfig[int]{Limit: &limit, MaxPageSize: 100})

		Expect(drain(ctx, p)).To(HaveLen(240))
		Expect(src.requests).To(Equal([]int{100, 100, 50}))
		Expect(p.Metadata().IterationsUsed).To(Equal(3))
		Expect(p.Metadata().ItemsExamined).To(Equal(240))
	})

	It("should honour a lower minimum expected page size", func() {
		src := &mockSource{total: 10, pageSizes: []int{3, 3}}
		p := newPager(src, paging.PagerConfig[int]{MaxPageSize: 5, MinExpectedPageSize: 1})
		Expect(drain(ctx, p)).To(HaveLen(10))
		Expect(src.requests).To(Equal([]int{5, 5, 5, 5}))
	})

	It("should treat the default minimum as the page size", func() {
		src := &mockSource{total: 10, pageSizes: []int{3}}
		p := newPager(src, paging.PagerConfig[int]{MaxPageSize: 5})
		Expect(drain(ctx, p)).To(HaveLen(3))
		Expect(src.requests).To(HaveLen(1))
	})

	It("should reverse each page when asked", func() {
		src := &mockSource{total: 4}
		p := newPager(src, paging.PagerConfig[int]{MaxPageSize: 2, Reverse: true})
		Expect(drain(ctx, p)).To(Equal([]string{"item-2", "item-1", "item-4", "item-3"}))
	})

	It("should end the sequence at the first post-filter rejection", func() {
		src := &mockSource{total: 50}
		p := newPager(src, paging.PagerConfig[int]{
			MaxPageSize: 10,
			PostFilter:  func(v int) bool { return v < 14 },
		})
		Expect(drain(ctx, p)).To(HaveLen(13))
		Expect(src.requests).To(HaveLen(2))
	})

	It("should stay exhausted", func() {
		src := &mockSource{total: 3}
		p := newPager(src, paging.PagerConfig[int]{MaxPageSize: 10})
		drain(ctx, p)
		for range 3 {
			_, err := p.Next(ctx)
			Expect(err).To(MatchError(paging.Done))
		}
		Expect(src.requests).To(HaveLen(1))
	})

	It("should return fetch errors and keep returning them", func() {
		boom := errors.New("rate limited")
		src := &mockSource{total: 10, fetchErr: boom}
		p := newPager(src, paging.PagerConfig[int]{MaxPageSize: 10})

		_, err := p.Next(ctx)
		Expect(err).To(MatchError(boom))
		_, err = p.Next(ctx)
		Expect(err).To(MatchError(boom))
		Expect(src.requests).To(HaveLen(1))
	})

	It("should return transform errors", func() {
		src := &mockSource{total: 10, failAt: 2}
		p := newPager(src, paging.PagerConfig[int]{MaxPageSize: 10})

		v, err := p.Next(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal("item-1"))

		_, err = p.Next(ctx)
		Expect(err).To(MatchError(ContainSubstring("bad item 2")))
	})

	It("should compose with Chunk", func() {
		src := &mockSource{total: 7}
		p := newPager(src, paging.PagerConfig[int]{MaxPageSize: 3})
		batches, err := paging.Chunk[string](p, 3)
		Expect(err).ToNot(HaveOccurred())
		Expect(drain(ctx, batches)).To(HaveLen(3))
	})
})

var _ = Describe("PageConfig", func() {
	It("should cap the next request at the maximum", func() {
		cfg := paging.NewPageConfig(100)
		Expect(cfg.NextLimit(250)).To(Equal(100))
		Expect(cfg.NextLimit(40)).To(Equal(40))
		Expect(cfg.NextLimit(0)).To(Equal(0))
	})

	It("should detect short pages", func() {
		cfg := paging.NewPageConfig(100)
		Expect(cfg.IsShort(99)).To(BeTrue())
		Expect(cfg.IsShort(100)).To(BeFalse())

		cfg.WithMinExpectedSize(1)
		Expect(cfg.IsShort(1)).To(BeFalse())
		Expect(cfg.IsShort(0)).To(BeTrue())
	})
})
