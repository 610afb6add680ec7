package liquipedia

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

const DefaultBaseURL = "https://liquipedia.net"

// Fetcher is the subset of the fetch client the adapter needs.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, target any) error
}

// ParseResponse is the MediaWiki action=parse envelope.
type ParseResponse struct {
	Parse *ParsedPage `json:"parse,omitempty"`
	Error *APIError   `json:"error,omitempty"`
}

type ParsedPage struct {
	Title  string            `json:"title"`
	PageID int64             `json:"pageid"`
	Text   map[string]string `json:"text"`
}

type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type Client struct {
	fetcher Fetcher
	baseURL string
}

func NewClient(fetcher Fetcher, baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{fetcher: fetcher, baseURL: baseURL}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchRosterPage returns the rendered markup of one wiki page. A response
// without a markup fragment yields an empty string.
func (c *Client) FetchRosterPage(ctx context.Context, wiki, page string) (string, error) {
	var payload ParseResponse
	if err := c.fetcher.FetchJSON(ctx, c.parseURL(wiki, page), &payload); err != nil {
		return "", crerr.Wrapf(err, "fetch wiki page wiki=%s page=%s", wiki, page)
	}
	if payload.Parse == nil {
		return "", nil
	}
	return payload.Parse.Text["*"], nil
}

func (c *Client) parseURL(wiki, page string) string {
	query := url.Values{}
	query.Set("action", "parse")
	query.Set("page", page)
	query.Set("prop", "text")
	query.Set("format", "json")
	query.Set("origin", "*")
	return fmt.Sprintf("%s/%s/api.php?%s", c.baseURL, url.PathEscape(wiki), query.Encode())
}
