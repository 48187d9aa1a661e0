package mal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the MyAnimeList v2 API root.
const DefaultBaseURL = "https://api.myanimelist.net/v2"

const maxBodyBytes = 4 << 20

// Client performs authenticated GETs against the MAL v2 API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout bounds a single request. Zero leaves only the caller's context.
	Timeout time.Duration
}

func New(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: httpClient, Timeout: timeout}
}

// Page is one page of a list query. An empty Next ends the list.
type Page struct {
	Items []json.RawMessage
	Next  string
}

type listResponse struct {
	Data   []json.RawMessage `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// FetchPage GETs pageURL and splits it into items and the next cursor.
func (c *Client) FetchPage(ctx context.Context, pageURL, accessToken string) (Page, error) {
	b, err := c.get(ctx, pageURL, accessToken)
	if err != nil {
		return Page{}, err
	}
	var out listResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return Page{}, wrap(ErrUpstreamFetch, fmt.Errorf("decode page: %w", err))
	}
	return Page{Items: out.Data, Next: out.Paging.Next}, nil
}

// Anime returns the raw upstream record for id.
func (c *Client) Anime(ctx context.Context, id, accessToken string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, wrap(ErrUpstreamFetch, errors.New("anime id required"))
	}
	b, err := c.get(ctx, c.BaseURL+"/anime/"+url.PathEscape(id), accessToken)
	if err != nil {
		return nil, err
	}
	if !json.Valid(b) {
		return nil, wrap(ErrUpstreamFetch, fmt.Errorf("anime %s: response is not JSON", id))
	}
	return json.RawMessage(b), nil
}

func (c *Client) get(ctx context.Context, rawURL, accessToken string) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, wrap(ErrUpstreamFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, wrap(ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, wrap(ErrUpstreamFetch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, wrap(ErrUpstreamFetch, &StatusError{StatusCode: resp.StatusCode, Body: b})
	}
	return b, nil
}
