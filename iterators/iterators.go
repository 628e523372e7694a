// Package iterators exposes the paginated chat API endpoints as lazily
// fetching sequences.
//
// Each constructor validates its options, converts before/after/around bounds
// to snowflakes and returns a *paging.Pager that issues its first request on
// the first call to Next. The pager composes with every combinator of the
// paging package:
//
//	history, err := iterators.NewHistory(client, state, iterators.HistoryOptions{
//	    ChannelID: channelID,
//	    After:     snowflake.At(time.Now().Add(-time.Hour)),
//	})
//	if err != nil {
//	    return err
//	}
//	for msg, err := range paging.All(ctx, history) {
//	    ...
//	}
//
// Every endpoint declares the one-method client it needs; rest.Client
// implements all of them.
package iterators

import (
	"github.com/friendsofgo/errors"
	"github.com/go-playground/validator/v10"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/snowflake"
)

// Maximum page sizes served by each endpoint.
const (
	reactionsPageSize       = 100
	historyPageSize         = 100
	bansPageSize            = 1000
	auditLogPageSize        = 100
	guildsPageSize          = 200
	membersPageSize         = 1000
	archivedThreadsPageSize = 100
	eventUsersPageSize      = 100
)

// maxAroundLimit is the most messages a single around request returns.
const maxAroundLimit = 101

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateOptions runs the struct tags of an options value and reports the
// first violation as a paging.ParameterError.
func validateOptions(opts any) error {
	err := validate.Struct(opts)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return paging.NewParameterError(fe.Field(), "failed %q validation", fe.Tag())
	}
	return paging.NewParameterError("options", "%v", err)
}

func userIDOf(p model.MemberPayload) snowflake.ID {
	if p.User == nil {
		return 0
	}
	return p.User.ID
}

// pagerOptions prepends the endpoint name so log lines identify their source.
func pagerOptions(name string, opts []paging.PagerOption) []paging.PagerOption {
	return append([]paging.PagerOption{paging.WithName(name)}, opts...)
}
