// Package tefas fetches daily fund prices from the TEFAS history endpoint.
package tefas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/viktsys/tefassync/models"
)

const (
	historyPath = "/api/DB/BindHistoryInfo"
	formLayout  = "02.01.2006"
)

type Crawler struct {
	baseURL    string
	kind       string
	httpClient *http.Client
}

// NewCrawler returns a crawler for the given fund kind ("YAT", "EMK" or "BYF").
func NewCrawler(baseURL, kind string, timeout time.Duration) *Crawler {
	jar, _ := cookiejar.New(nil)
	return &Crawler{
		baseURL: strings.TrimRight(baseURL, "/"),
		kind:    kind,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// historyRow is the subset of a history row the job keeps. The endpoint also
// returns title, share count, investor count and portfolio size.
type historyRow struct {
	Date  msTimestamp     `json:"TARIH"`
	Code  string          `json:"FONKODU"`
	Price decimal.Decimal `json:"FIYAT"`
}

type historyResponse struct {
	Data *[]historyRow `json:"data"`
}

// Fetch returns the price of every fund of the crawler's kind on date (YYYY-MM-DD).
func (c *Crawler) Fetch(ctx context.Context, date string) ([]models.PriceRecord, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	if err := c.openSession(ctx); err != nil {
		return nil, err
	}

	form := url.Values{
		"fontip":   {c.kind},
		"bastarih": {day.Format(formLayout)},
		"bittarih": {day.Format(formLayout)},
		"fonkod":   {""},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+historyPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/TarihselVeriler.aspx")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tefas fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tefas returned status %d", resp.StatusCode)
	}

	return decodeHistory(body)
}

// openSession loads the root page so the session cookies TEFAS checks on the
// API call are present in the jar.
func (c *Crawler) openSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build session request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tefas session: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

func decodeHistory(body []byte) ([]models.PriceRecord, error) {
	var payload historyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("decode history: response has no data field")
	}

	records := make([]models.PriceRecord, 0, len(*payload.Data))
	for i, row := range *payload.Data {
		if row.Code == "" {
			return nil, fmt.Errorf("decode history: row %d has no fund code", i)
		}
		if row.Date.IsZero() {
			return nil, fmt.Errorf("decode history: row %d (%s) has no date", i, row.Code)
		}
		records = append(records, models.PriceRecord{
			Date:  row.Date.UTC().Format(models.DateLayout),
			Code:  row.Code,
			Price: row.Price,
		})
	}
	return records, nil
}

// msTimestamp decodes epoch milliseconds sent either as a JSON number or string.
type msTimestamp struct {
	time.Time
}

func (t *msTimestamp) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid epoch milliseconds %q: %w", s, err)
	}
	t.Time = time.UnixMilli(ms)
	return nil
}
