package store

import (
	"github.com/aarondl/sqlboiler/v4/queries"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/snowflake"
)

var _ = Describe("HistoryToQueryMods", func() {
	build := func(params paging.FetchParams) (string, []any) {
		return queries.BuildQuery(newQuery(HistoryToQueryMods(9, params)...))
	}

	It("should read newest first without bounds", func() {
		sql, args := build(paging.FetchParams{Limit: 100})

		Expect(sql).To(ContainSubstring("channel_id = $1"))
		Expect(sql).To(ContainSubstring("ORDER BY id DESC"))
		Expect(sql).To(ContainSubstring("LIMIT 100"))
		Expect(args).To(Equal([]any{int64(9)}))
	})

	It("should bound by before", func() {
		sql, args := build(paging.FetchParams{Limit: 50, Before: snowflake.ID(30).Ptr()})

		Expect(sql).To(ContainSubstring("id < $2"))
		Expect(sql).To(ContainSubstring("ORDER BY id DESC"))
		Expect(args).To(Equal([]any{int64(9), int64(30)}))
	})

	It("should read oldest first from after", func() {
		sql, args := build(paging.FetchParams{Limit: 50, After: snowflake.ID(30).Ptr()})

		Expect(sql).To(ContainSubstring("id > $2"))
		Expect(sql).To(ContainSubstring("ORDER BY id ASC"))
		Expect(args).To(Equal([]any{int64(9), int64(30)}))
	})

	It("should split around into two halves", func() {
		newer, older := aroundQueryMods(9, 20, 11)

		newerSQL, _ := queries.BuildQuery(newQuery(newer...))
		olderSQL, _ := queries.BuildQuery(newQuery(older...))

		Expect(newerSQL).To(ContainSubstring("id > $2"))
		Expect(newerSQL).To(ContainSubstring("LIMIT 5"))
		Expect(olderSQL).To(ContainSubstring("id <= $2"))
		Expect(olderSQL).To(ContainSubstring("LIMIT 11"))
	})
})
