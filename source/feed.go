package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/javajack/sheetlive"
)

// DefaultFeedURL is the base of the legacy cells feed.
const DefaultFeedURL = "https://spreadsheets.google.com/feeds/cells"

// Feed reads the legacy cells feed, which lists named cells instead of a grid.
// The whole worksheet comes back; cells outside the range are dropped.
type Feed struct {
	baseURL       string
	spreadsheetID string
	worksheet     string
	client        *http.Client
}

// NewFeed creates a legacy feed source.
func NewFeed(cfg Config) *Feed {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultFeedURL
	}
	return &Feed{
		baseURL:       strings.TrimRight(base, "/"),
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
		client:        httpClient(cfg.Client),
	}
}

// URL returns the feed URL. The feed has no notion of a range.
func (f *Feed) URL() string {
	return fmt.Sprintf("%s/%s/%s/public/values?alt=json",
		f.baseURL, url.PathEscape(f.spreadsheetID), url.PathEscape(f.worksheet))
}

// Fetch downloads the feed and projects its cells onto rng.
func (f *Feed) Fetch(ctx context.Context, rng sheetlive.BoundingRange) (sheetlive.Grid, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sheetlive.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := get(f.client, req)
	if err != nil {
		return nil, err
	}
	cells, err := DecodeFeed(body)
	if err != nil {
		return nil, err
	}
	return sheetlive.GridFromCells(rng, cells), nil
}

// DecodeFeed reads feed.entry[] into label → value. Titles and contents may be
// plain strings or {"$t": "..."} objects.
func DecodeFeed(body []byte) (map[string]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: feed body is not valid JSON", sheetlive.ErrDecodeFailed)
	}
	entries := gjson.GetBytes(body, "feed.entry")
	cells := make(map[string]string)
	if !entries.Exists() {
		return cells, nil
	}
	if !entries.IsArray() {
		return nil, fmt.Errorf("%w: feed.entry is %s, expected a list", sheetlive.ErrDecodeFailed, entries.Type)
	}

	entries.ForEach(func(_, entry gjson.Result) bool {
		title := text(entry.Get("title"))
		if title == "" {
			return true
		}
		cells[strings.ToUpper(title)] = text(entry.Get("content"))
		return true
	})
	return cells, nil
}

func text(r gjson.Result) string {
	if r.IsObject() {
		return r.Map()["$t"].String()
	}
	if r.Type == gjson.String {
		return r.String()
	}
	return ""
}
