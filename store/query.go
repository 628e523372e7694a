package store

import (
	"github.com/aarondl/sqlboiler/v4/drivers"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/snowflake"
)

var dialect = drivers.Dialect{
	LQ: '"',
	RQ: '"',

	UseIndexPlaceholders: true,
	UseDefaultKeyword:    true,
}

// newQuery builds a Postgres query from query mods.
func newQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

// HistoryToQueryMods converts a history page request into query mods over the
// archive table, mirroring the API's paging rules:
//   - Before → id < before, newest first
//   - After → id > after, oldest first (callers reverse the rows)
//   - Limit → qm.Limit(n)
//
// Around is served by two queries; see aroundQueryMods.
func HistoryToQueryMods(channelID snowflake.ID, params paging.FetchParams) []qm.QueryMod {
	mods := []qm.QueryMod{
		qm.Select(messageColumns...),
		qm.From(tableName),
		qm.Where("channel_id = ?", int64(channelID)),
	}

	if params.Before != nil {
		mods = append(mods, qm.Where("id < ?", int64(*params.Before)))
	}
	if params.After != nil {
		mods = append(mods, qm.Where("id > ?", int64(*params.After)))
		mods = append(mods, qm.OrderBy("id ASC"))
	} else {
		mods = append(mods, qm.OrderBy("id DESC"))
	}

	if params.Limit > 0 {
		mods = append(mods, qm.Limit(params.Limit))
	}

	return mods
}

// aroundQueryMods returns the mods for the messages newer than around
// (ascending, at most limit/2) and for around and older (descending).
func aroundQueryMods(channelID, around snowflake.ID, limit int) (newer, older []qm.QueryMod) {
	base := []qm.QueryMod{
		qm.Select(messageColumns...),
		qm.From(tableName),
		qm.Where("channel_id = ?", int64(channelID)),
	}

	newer = append(base[:len(base):len(base)],
		qm.Where("id > ?", int64(around)),
		qm.OrderBy("id ASC"),
		qm.Limit(limit/2),
	)
	older = append(base[:len(base):len(base)],
		qm.Where("id <= ?", int64(around)),
		qm.OrderBy("id DESC"),
		qm.Limit(limit),
	)
	return newer, older
}
