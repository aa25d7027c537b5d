package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/javajack/sheetlive"
)

// DefaultSheetsURL is the base of the values API.
const DefaultSheetsURL = "https://sheets.googleapis.com/v4/spreadsheets"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Sheets reads a range through the spreadsheet values API, one request per fetch.
type Sheets struct {
	baseURL       string
	spreadsheetID string
	worksheet     string
	apiKey        string
	client        *http.Client
}

// NewSheets creates a values API source.
func NewSheets(cfg Config) *Sheets {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultSheetsURL
	}
	return &Sheets{
		baseURL:       strings.TrimRight(base, "/"),
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
		apiKey:        cfg.APIKey,
		client:        httpClient(cfg.Client),
	}
}

// URL returns the request URL for rng, columns first, formatted values.
func (s *Sheets) URL(rng sheetlive.BoundingRange) string {
	q := url.Values{}
	q.Set("key", s.apiKey)
	q.Set("majorDimension", "COLUMNS")
	q.Set("valueRenderOption", "FORMATTED_VALUE")
	return fmt.Sprintf("%s/%s/values/%s?%s",
		s.baseURL,
		url.PathEscape(s.spreadsheetID),
		url.PathEscape(s.worksheet+"!"+rng.String()),
		q.Encode(),
	)
}

// RedactedURL is URL with the API key masked, for logs and the CLI.
func (s *Sheets) RedactedURL(rng sheetlive.BoundingRange) string {
	return redactKey(s.URL(rng))
}

type valuesResponse struct {
	Range          string  `json:"range"`
	MajorDimension string  `json:"majorDimension"`
	Values         [][]any `json:"values"`
}

// Fetch requests rng and returns it as a column-major grid.
// An empty range comes back without "values" and yields an empty grid.
func (s *Sheets) Fetch(ctx context.Context, rng sheetlive.BoundingRange) (sheetlive.Grid, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(rng), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sheetlive.ErrFetchFailed, redactErr(err))
	}
	req.Header.Set("Accept", "application/json")

	body, err := get(s.client, req)
	if err != nil {
		return nil, err
	}
	return DecodeValues(body)
}

// DecodeValues decodes a values API body. Cells that are not strings read as "".
func DecodeValues(body []byte) (sheetlive.Grid, error) {
	var resp valuesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", sheetlive.ErrDecodeFailed, err)
	}
	if resp.MajorDimension != "" && resp.MajorDimension != "COLUMNS" {
		return nil, fmt.Errorf("%w: expected COLUMNS major dimension, got %s", sheetlive.ErrDecodeFailed, resp.MajorDimension)
	}
	return sheetlive.GridFromValues(resp.Values), nil
}

func redactKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("key") == "" {
		return raw
	}
	q.Set("key", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}

func redactErr(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: redactKey(ue.URL), Err: ue.Err}
	}
	return err
}
