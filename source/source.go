// Package source implements the sheets an updater can poll: the current values
// API, the legacy cells feed and a local workbook for rehearsals.
package source

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/javajack/sheetlive"
)

// Source kinds accepted by New.
const (
	KindValues = "values"
	KindFeed   = "feed"
	KindXLSX   = "xlsx"
)

// Config selects and configures a source.
type Config struct {
	Kind          string // values (default), feed or xlsx
	BaseURL       string // overrides the public endpoint, mostly for tests and proxies
	SpreadsheetID string
	Worksheet     string
	APIKey        string
	File          string       // workbook path for the xlsx kind
	Client        *http.Client // defaults to a client without its own timeout; the updater bounds each fetch
}

// New builds the source described by cfg.
func New(cfg Config) (sheetlive.Source, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", KindValues:
		if cfg.SpreadsheetID == "" || cfg.Worksheet == "" {
			return nil, fmt.Errorf("values source needs a spreadsheet id and a worksheet")
		}
		return NewSheets(cfg), nil
	case KindFeed:
		if cfg.SpreadsheetID == "" || cfg.Worksheet == "" {
			return nil, fmt.Errorf("feed source needs a spreadsheet id and a worksheet")
		}
		return NewFeed(cfg), nil
	case KindXLSX:
		if cfg.File == "" {
			return nil, fmt.Errorf("xlsx source needs a file")
		}
		return NewWorkbook(cfg.File, cfg.Worksheet), nil
	}
	return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}}
}

// get issues a GET and returns the body of a 2xx response.
// Anything else is ErrFetchFailed.
func get(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sheetlive.ErrFetchFailed, redactErr(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", sheetlive.ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", sheetlive.ErrFetchFailed, err)
	}
	return body, nil
}
