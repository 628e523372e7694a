// Package store archives chat messages in Postgres and serves them back with
// the same paging rules as the chat API, so an archive can be read with the
// history iterator:
//
//	archive := store.New(db)
//	history, err := iterators.NewHistory(archive, state, iterators.HistoryOptions{ChannelID: id})
package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/aarondl/strmangle"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/iterators"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

const tableName = "archived_messages"

// insertBatchSize keeps a multi-row insert below Postgres' parameter limit.
const insertBatchSize = 1000

var messageColumns = []string{
	"id", "channel_id", "author_id", "author_name", "content",
	"created_at", "edited_at", "run_id", "archived_at",
}

const schema = `
	CREATE TABLE IF NOT EXISTS archived_messages (
		id BIGINT PRIMARY KEY,
		channel_id BIGINT NOT NULL,
		author_id BIGINT NOT NULL,
		author_name TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		edited_at TIMESTAMPTZ,
		run_id UUID NOT NULL,
		archived_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_archived_messages_channel_id
		ON archived_messages(channel_id, id DESC);
`

// messageRow is one row of the archive table.
type messageRow struct {
	ID         int64     `boil:"id"`
	ChannelID  int64     `boil:"channel_id"`
	AuthorID   int64     `boil:"author_id"`
	AuthorName string    `boil:"author_name"`
	Content    string    `boil:"content"`
	CreatedAt  time.Time `boil:"created_at"`
	EditedAt   null.Time `boil:"edited_at"`
	RunID      uuid.UUID `boil:"run_id"`
	ArchivedAt time.Time `boil:"archived_at"`
}

func (r *messageRow) payload() model.MessagePayload {
	return model.MessagePayload{
		ID:        snowflake.ID(r.ID),
		ChannelID: snowflake.ID(r.ChannelID),
		Author: model.UserPayload{
			ID:       snowflake.ID(r.AuthorID),
			Username: r.AuthorName,
		},
		Content:         r.Content,
		Timestamp:       r.CreatedAt,
		EditedTimestamp: r.EditedAt.Ptr(),
	}
}

// Store is the message archive.
type Store struct {
	db *sql.DB
}

var _ iterators.HistoryClient = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the archive table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate archive: %w", err)
	}
	return nil
}

// SaveMessages inserts messages under runID and returns how many were new.
// Messages already archived are left untouched.
func (s *Store) SaveMessages(ctx context.Context, runID uuid.UUID, msgs []*model.Message) (int64, error) {
	var inserted int64
	archivedAt := time.Now().UTC()

	for _, batch := range lo.Chunk(msgs, insertBatchSize) {
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT (id) DO NOTHING",
			tableName,
			strings.Join(strmangle.IdentQuoteSlice(dialect.LQ, dialect.RQ, messageColumns), ", "),
			strmangle.Placeholders(dialect.UseIndexPlaceholders, len(batch)*len(messageColumns), 1, len(messageColumns)),
		)

		args := make([]any, 0, len(batch)*len(messageColumns))
		for _, m := range batch {
			var authorID snowflake.ID
			var authorName string
			if m.Author != nil {
				authorID = m.Author.UserID()
				authorName = m.Author.DisplayName()
			}
			args = append(args,
				int64(m.ID),
				int64(m.ChannelID),
				int64(authorID),
				authorName,
				m.Content,
				m.CreatedAt,
				null.TimeFromPtr(m.EditedAt),
				runID,
				archivedAt,
			)
		}

		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("insert messages: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("insert messages: %w", err)
		}
		inserted += n
	}

	return inserted, nil
}

// GetMessages serves a page of archived messages, newest first.
func (s *Store) GetMessages(ctx context.Context, channelID snowflake.ID, params paging.FetchParams) ([]model.MessagePayload, error) {
	var rows []*messageRow

	if params.Around != nil {
		newerMods, olderMods := aroundQueryMods(channelID, *params.Around, params.Limit)

		var newer, older []*messageRow
		if err := newQuery(newerMods...).Bind(ctx, s.db, &newer); err != nil {
			return nil, fmt.Errorf("query messages: %w", err)
		}
		if err := newQuery(olderMods...).Bind(ctx, s.db, &older); err != nil {
			return nil, fmt.Errorf("query messages: %w", err)
		}

		slices.Reverse(newer)
		rows = append(newer, older[:min(len(older), params.Limit-len(newer))]...)
	} else {
		if err := newQuery(HistoryToQueryMods(channelID, params)...).Bind(ctx, s.db, &rows); err != nil {
			return nil, fmt.Errorf("query messages: %w", err)
		}
		if params.After != nil {
			slices.Reverse(rows)
		}
	}

	return lo.Map(rows, func(r *messageRow, _ int) model.MessagePayload {
		return r.payload()
	}), nil
}

// Count returns the number of archived messages of a channel.
func (s *Store) Count(ctx context.Context, channelID snowflake.ID) (int64, error) {
	var count int64
	err := newQuery(
		qm.Select("COUNT(*)"),
		qm.From(tableName),
		qm.Where("channel_id = ?", int64(channelID)),
	).QueryRowContext(ctx, s.db).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}
