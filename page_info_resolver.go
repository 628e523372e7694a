package paging

import (
	"context"
	"fmt"
)

// PageInfoResolver evaluates the lazy fields of a PageInfo, for GraphQL
// resolvers or anything else that serializes a page.
type PageInfoResolver interface {
	HasPreviousPage(ctx context.Context, pageInfo *PageInfo) (bool, error)
	HasNextPage(ctx context.Context, pageInfo *PageInfo) (bool, error)
	StartCursor(ctx context.Context, pageInfo *PageInfo) (*string, error)
	EndCursor(ctx context.Context, pageInfo *PageInfo) (*string, error)
	Resolve(ctx context.Context, pageInfo *PageInfo) (*ResolvedPageInfo, error)
}

// ResolvedPageInfo is a PageInfo with every field evaluated.
type ResolvedPageInfo struct {
	TotalCount      *int    `json:"totalCount,omitempty"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	HasNextPage     bool    `json:"hasNextPage"`
	StartCursor     *string `json:"startCursor,omitempty"`
	EndCursor       *string `json:"endCursor,omitempty"`
}

type pageInfoResolver struct{}

// NewPageInfoResolver returns the resolver for PageInfo
func NewPageInfoResolver() PageInfoResolver {
	return &pageInfoResolver{}
}

func (r *pageInfoResolver) HasPreviousPage(_ context.Context, pageInfo *PageInfo) (bool, error) {
	if pageInfo == nil || pageInfo.HasPreviousPage == nil {
		return false, nil
	}
	return pageInfo.HasPreviousPage()
}

func (r *pageInfoResolver) HasNextPage(_ context.Context, pageInfo *PageInfo) (bool, error) {
	if pageInfo == nil || pageInfo.HasNextPage == nil {
		return false, nil
	}
	return pageInfo.HasNextPage()
}

func (r *pageInfoResolver) StartCursor(_ context.Context, pageInfo *PageInfo) (*string, error) {
	if pageInfo == nil || pageInfo.StartCursor == nil {
		return nil, nil
	}
	return pageInfo.StartCursor()
}

func (r *pageInfoResolver) EndCursor(_ context.Context, pageInfo *PageInfo) (*string, error) {
	if pageInfo == nil || pageInfo.EndCursor == nil {
		return nil, nil
	}
	return pageInfo.EndCursor()
}

// Resolve evaluates every field, returning the first error encountered.
func (r *pageInfoResolver) Resolve(ctx context.Context, pageInfo *PageInfo) (*ResolvedPageInfo, error) {
	var (
		out ResolvedPageInfo
		err error
	)
	if pageInfo != nil && pageInfo.TotalCount != nil {
		if out.TotalCount, err = pageInfo.TotalCount(); err != nil {
			return nil, fmt.Errorf("resolve totalCount: %w", err)
		}
	}
	if out.HasPreviousPage, err = r.HasPreviousPage(ctx, pageInfo); err != nil {
		return nil, fmt.Errorf("resolve hasPreviousPage: %w", err)
	}
	if out.HasNextPage, err = r.HasNextPage(ctx, pageInfo); err != nil {
		return nil, fmt.Errorf("resolve hasNextPage: %w", err)
	}
	if out.StartCursor, err = r.StartCursor(ctx, pageInfo); err != nil {
		return nil, fmt.Errorf("resolve startCursor: %w", err)
	}
	if out.EndCursor, err = r.EndCursor(ctx, pageInfo); err != nil {
		return nil, fmt.Errorf("resolve endCursor: %w", err)
	}
	return &out, nil
}
