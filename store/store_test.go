package store_test

import (
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/iterators"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
	"github.com/nrfta/chat-paging-go/store"
)

// seedMessages builds n messages with IDs 1..n in channel.
func seedMessages(channel snowflake.ID, n int) []*model.Message {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	author := model.NewUser(model.UserPayload{ID: 7, Username: "ann"})

	out := make([]*model.Message, n)
	for i := range out {
		out[i] = &model.Message{
			ID:        snowflake.ID(i + 1),
			ChannelID: channel,
			Author:    author,
			Content:   "message",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func payloadIDs(msgs []model.MessagePayload) []snowflake.ID {
	return lo.Map(msgs, func(m model.MessagePayload, _ int) snowflake.ID { return m.ID })
}

var _ = Describe("Store", func() {
	var (
		archive *store.Store
		channel snowflake.ID
	)

	BeforeEach(func() {
		archive = store.New(container.DB)
		Expect(archive.Migrate(ctx)).To(Succeed())

		channel = 100
		_, err := container.DB.ExecContext(ctx, "TRUNCATE archived_messages")
		Expect(err).ToNot(HaveOccurred())
	})

	It("should migrate idempotently", func() {
		Expect(archive.Migrate(ctx)).To(Succeed())
	})

	Describe("SaveMessages", func() {
		It("should insert new messages only once", func() {
			msgs := seedMessages(channel, 25)

			n, err := archive.SaveMessages(ctx, uuid.New(), msgs)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(BeEquivalentTo(25))

			n, err = archive.SaveMessages(ctx, uuid.New(), msgs)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(BeZero())

			count, err := archive.Count(ctx, channel)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(BeEquivalentTo(25))
		})

		It("should split large batches", func() {
			n, err := archive.SaveMessages(ctx, uuid.New(), seedMessages(channel, 2500))
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(BeEquivalentTo(2500))
		})

		It("should accept an empty batch", func() {
			n, err := archive.SaveMessages(ctx, uuid.New(), nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(BeZero())
		})

		It("should keep edit timestamps and author names", func() {
			msgs := seedMessages(channel, 1)
			edited := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
			msgs[0].EditedAt = &edited

			_, err := archive.SaveMessages(ctx, uuid.New(), msgs)
			Expect(err).ToNot(HaveOccurred())

			page, err := archive.GetMessages(ctx, channel, paging.FetchParams{Limit: 1})
			Expect(err).ToNot(HaveOccurred())
			Expect(page[0].Author.Username).To(Equal("ann"))
			Expect(page[0].EditedTimestamp.Equal(edited)).To(BeTrue())
			Expect(page[0].Timestamp.Equal(msgs[0].CreatedAt)).To(BeTrue())
		})
	})

	Describe("GetMessages", func() {
		BeforeEach(func() {
			_, err := archive.SaveMessages(ctx, uuid.New(), seedMessages(channel, 50))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should page backwards newest first", func() {
			page, err := archive.GetMessages(ctx, channel, paging.FetchParams{Limit: 3, Before: snowflake.ID(10).Ptr()})
			Expect(err).ToNot(HaveOccurred())
			Expect(payloadIDs(page)).To(Equal([]snowflake.ID{9, 8, 7}))
		})

		It("should page forwards and still answer newest first", func() {
			page, err := archive.GetMessages(ctx, channel, paging.FetchParams{Limit: 3, After: snowflake.ID(10).Ptr()})
			Expect(err).ToNot(HaveOccurred())
			Expect(payloadIDs(page)).To(Equal([]snowflake.ID{13, 12, 11}))
		})

		It("should centre a page around a message", func() {
			page, err := archive.GetMessages(ctx, channel, paging.FetchParams{Limit: 4, Around: snowflake.ID(20).Ptr()})
			Expect(err).ToNot(HaveOccurred())
			Expect(payloadIDs(page)).To(Equal([]snowflake.ID{22, 21, 20, 19}))
		})

		It("should ignore other channels", func() {
			page, err := archive.GetMessages(ctx, channel+1, paging.FetchParams{Limit: 10})
			Expect(err).ToNot(HaveOccurred())
			Expect(page).To(BeEmpty())
		})

		It("should serve the history iterator", func() {
			h, err := iterators.NewHistory(archive, model.NewMemoryState(1), iterators.HistoryOptions{
				ChannelID: channel,
				After:     snowflake.Of(5),
			})
			Expect(err).ToNot(HaveOccurred())

			msgs, err := paging.Collect(ctx, h)
			Expect(err).ToNot(HaveOccurred())
			Expect(msgs).To(HaveLen(45))
			Expect(msgs[0].ID).To(Equal(snowflake.ID(6)))
			Expect(msgs[44].ID).To(Equal(snowflake.ID(50)))
			Expect(msgs[0].Author.DisplayName()).To(Equal("ann"))
		})
	})
})
