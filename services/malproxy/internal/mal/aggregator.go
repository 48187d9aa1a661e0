package mal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"
)

// PageFetcher fetches one page of a list query.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL, accessToken string) (Page, error)
}

// Aggregator collects every page of the authenticated user's anime list.
type Aggregator struct {
	pages   PageFetcher
	baseURL string
}

func NewAggregator(pages PageFetcher, baseURL string) *Aggregator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Aggregator{pages: pages, baseURL: baseURL}
}

// ListURL is the first page of the watch list, optionally filtered by status.
func ListURL(baseURL, status string) string {
	u := baseURL + "/users/@me/animelist?fields=list_status"
	if status != "" {
		u += "&status=" + url.QueryEscape(status)
	}
	return u
}

// FullList walks the list sequentially to discover every page URL, then
// fetches all discovered pages again in parallel. Items from both passes are
// returned, discovery first, then the second pass in page order, so every
// item appears twice. Any failed page fails the whole call.
func (a *Aggregator) FullList(ctx context.Context, status, accessToken string) ([]json.RawMessage, error) {
	items := []json.RawMessage{}

	var visited []string
	seen := make(map[string]struct{})
	for next := ListURL(a.baseURL, status); next != ""; {
		if _, dup := seen[next]; dup {
			return nil, wrap(ErrUpstreamFetch, fmt.Errorf("paging cycle at %s", next))
		}
		seen[next] = struct{}{}
		visited = append(visited, next)

		page, err := a.pages.FetchPage(ctx, next, accessToken)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		next = page.Next
	}

	refetched := make([][]json.RawMessage, len(visited))
	g, gctx := errgroup.WithContext(ctx)
	for i, pageURL := range visited {
		i, pageURL := i, pageURL
		g.Go(func() error {
			page, err := a.pages.FetchPage(gctx, pageURL, accessToken)
			if err != nil {
				return err
			}
			refetched[i] = page.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, p := range refetched {
		items = append(items, p...)
	}
	return items, nil
}
