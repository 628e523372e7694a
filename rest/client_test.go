package rest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/iterators"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/rest"
	"github.com/nrfta/chat-paging-go/snowflake"
)

var _ = Describe("Client", func() {
	var (
		ctx      context.Context
		server   *httptest.Server
		client   *rest.Client
		requests []*http.Request
		status   int
		body     string
	)

	BeforeEach(func() {
		ctx = context.Background()
		requests = nil
		status = http.StatusOK
		body = `[]`

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
		DeferCleanup(server.Close)

		client = rest.New("secret", rest.WithBaseURL(server.URL+"/"), rest.WithUserAgent("test-agent"))
	})

	query := func(i int) url.Values {
		return requests[i].URL.Query()
	}

	It("should authenticate and decode messages", func() {
		body = `[{"id":"20","channel_id":"1","author":{"id":"7","username":"ann"},"content":"hi","timestamp":"2024-01-01T00:00:00Z"}]`

		msgs, err := client.GetMessages(ctx, 1, paging.FetchParams{Limit: 50, Before: snowflake.ID(30).Ptr()})

		Expect(err).ToNot(HaveOccurred())
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].ID).To(Equal(snowflake.ID(20)))
		Expect(msgs[0].Author.Username).To(Equal("ann"))

		Expect(requests[0].URL.Path).To(Equal("/channels/1/messages"))
		Expect(requests[0].Header.Get("Authorization")).To(Equal("Bot secret"))
		Expect(requests[0].Header.Get("User-Agent")).To(Equal("test-agent"))
		Expect(query(0).Get("limit")).To(Equal("50"))
		Expect(query(0).Get("before")).To(Equal("30"))
		Expect(query(0).Has("after")).To(BeFalse())
	})

	It("should escape reaction emoji and send only after", func() {
		_, err := client.GetReactions(ctx, 1, 2, "🔥", paging.FetchParams{
			Limit:  100,
			Before: snowflake.ID(9).Ptr(),
			After:  snowflake.ID(3).Ptr(),
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(requests[0].URL.EscapedPath()).To(Equal("/channels/1/messages/2/reactions/%F0%9F%94%A5"))
		Expect(query(0).Get("after")).To(Equal("3"))
		Expect(query(0).Has("before")).To(BeFalse())
	})

	It("should route archived thread listings", func() {
		body = `{"threads":[],"members":[],"has_more":false}`
		before := "2024-01-01T00:00:00.000000+00:00"

		for _, kind := range []model.ThreadArchiveKind{model.ArchivedPublic, model.ArchivedPrivate, model.ArchivedJoinedPrivate} {
			_, err := client.GetArchivedThreads(ctx, 5, model.ArchivedThreadsQuery{Kind: kind, Before: &before, Limit: 2})
			Expect(err).ToNot(HaveOccurred())
		}

		Expect(requests[0].URL.Path).To(Equal("/channels/5/threads/archived/public"))
		Expect(requests[1].URL.Path).To(Equal("/channels/5/threads/archived/private"))
		Expect(requests[2].URL.Path).To(Equal("/channels/5/users/@me/threads/archived/private"))
		Expect(query(0).Get("before")).To(Equal(before))
	})

	It("should send audit log filters", func() {
		body = `{"audit_log_entries":[{"id":"10","action_type":20,"user_id":"7"}],"users":[{"id":"7","username":"mod"}]}`
		action := model.ActionMemberKick

		page, err := client.GetAuditLog(ctx, 9, model.AuditLogQuery{
			Limit:      100,
			Before:     snowflake.ID(11).Ptr(),
			UserID:     snowflake.ID(7).Ptr(),
			ActionType: &action,
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(page.AuditLogEntries).To(HaveLen(1))
		Expect(page.Users[0].Username).To(Equal("mod"))
		Expect(requests[0].URL.Path).To(Equal("/guilds/9/audit-logs"))
		Expect(query(0).Get("action_type")).To(Equal("20"))
		Expect(query(0).Get("user_id")).To(Equal("7"))
	})

	It("should ask for members on event subscribers", func() {
		_, err := client.GetScheduledEventUsers(ctx, 9, 3, model.ScheduledEventUsersQuery{Limit: 100, WithMember: true})

		Expect(err).ToNot(HaveOccurred())
		Expect(requests[0].URL.Path).To(Equal("/guilds/9/scheduled-events/3/users"))
		Expect(query(0).Get("with_member")).To(Equal("true"))
	})

	It("should list the current user's guilds", func() {
		_, err := client.GetGuilds(ctx, paging.FetchParams{Limit: 200, After: snowflake.ID(4).Ptr()})

		Expect(err).ToNot(HaveOccurred())
		Expect(requests[0].URL.Path).To(Equal("/users/@me/guilds"))
		Expect(query(0).Get("after")).To(Equal("4"))
	})

	Describe("errors", func() {
		It("should return API errors as *rest.Error", func() {
			status = http.StatusForbidden
			body = `{"code":50013,"message":"Missing Permissions"}`

			_, err := client.GetBans(ctx, 9, paging.FetchParams{Limit: 1000})

			var apiErr *rest.Error
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Status).To(Equal(http.StatusForbidden))
			Expect(apiErr.Code).To(Equal(50013))
			Expect(apiErr.Error()).To(ContainSubstring("Missing Permissions"))
		})

		It("should tolerate error bodies that are not JSON", func() {
			status = http.StatusBadGateway
			body = `<html>bad gateway</html>`

			_, err := client.GetMembers(ctx, 9, paging.FetchParams{Limit: 1000})

			var apiErr *rest.Error
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Error()).To(Equal("chat api: 502 Bad Gateway"))
		})

		It("should wrap decode failures", func() {
			body = `{"not":"a list"}`

			_, err := client.GetMessages(ctx, 1, paging.FetchParams{Limit: 1})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(HavePrefix("decode /channels/1/messages"))
		})
	})

	It("should drive a history iterator", func() {
		body = `[{"id":"3","channel_id":"1","author":{"id":"7","username":"ann"}},{"id":"2","channel_id":"1","author":{"id":"7","username":"ann"}}]`

		h, err := iterators.NewHistory(client, model.NewMemoryState(1), iterators.HistoryOptions{ChannelID: 1})
		Expect(err).ToNot(HaveOccurred())

		msgs, err := paging.Collect(ctx, h)
		Expect(err).ToNot(HaveOccurred())
		Expect(msgs).To(HaveLen(2))
		Expect(requests).To(HaveLen(1))
		Expect(query(0).Get("limit")).To(Equal("100"))
	})
})
