package datasource

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

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/ctdf"
	"github.com/travigo/trainpredict/pkg/util"
)

const defaultBaseURL = "http://localhost:8090"
const defaultTimeout = 30 * time.Second
const defaultMaxRetries = 3

var ErrUnexpectedStatus = errors.New("unexpected status from transit api")

// Client reads vehicle history, live snapshots, timetables and stations from the transit data API
type Client struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries uint64

	HTTPClient *http.Client
}

// NewClient configures a Client from TRAVIGO_TRANSIT_API_URL and TRAVIGO_TRANSIT_API_KEY
func NewClient() *Client {
	env := util.GetEnvironmentVariables()

	baseURL := defaultBaseURL
	if env["TRAVIGO_TRANSIT_API_URL"] != "" {
		baseURL = env["TRAVIGO_TRANSIT_API_URL"]
	}

	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		APIKey:     env["TRAVIGO_TRANSIT_API_KEY"],
		Timeout:    defaultTimeout,
		MaxRetries: defaultMaxRetries,
		HTTPClient: &http.Client{},
	}
}

func (c *Client) History(ctx context.Context, runNumber string, cursor time.Time) (HistoryPage, error) {
	var page HistoryPage

	query := url.Values{}
	if !cursor.IsZero() {
		query.Set("since", cursor.Format(time.RFC3339Nano))
	}

	err := c.get(ctx, fmt.Sprintf("/runs/%s/history", url.PathEscape(runNumber)), query, &page)

	return page, err
}

func (c *Client) Runs(ctx context.Context) ([]string, error) {
	var response struct {
		Runs []string `json:"runs"`
	}

	if err := c.get(ctx, "/runs", nil, &response); err != nil {
		return nil, err
	}

	return response.Runs, nil
}

func (c *Client) Snapshot(ctx context.Context) ([]RawStatus, error) {
	var page HistoryPage

	if err := c.get(ctx, "/snapshot", nil, &page); err != nil {
		return nil, err
	}

	return page.Entries, nil
}

func (c *Client) Timetable(ctx context.Context, runNumber string) ([]ctdf.TimetableEntry, error) {
	var response struct {
		Entries []TimetableRecord `json:"entries"`
	}

	if err := c.get(ctx, fmt.Sprintf("/runs/%s/timetable", url.PathEscape(runNumber)), nil, &response); err != nil {
		return nil, err
	}

	return ConvertTimetable(response.Entries)
}

func (c *Client) Stations(ctx context.Context) (map[string]string, error) {
	var response struct {
		Stations map[string]string `json:"stations"`
	}

	if err := c.get(ctx, "/stations", nil, &response); err != nil {
		return nil, err
	}

	return response.Stations, nil
}

// get retries transport failures and 5xx/429 responses with exponential backoff
func (c *Client) get(ctx context.Context, path string, query url.Values, target any) error {
	requestURL := c.BaseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	retryBackoff := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.MaxRetries), ctx)

	return backoff.RetryNotify(func() error {
		return c.doRequest(ctx, requestURL, target)
	}, retryBackoff, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("url", requestURL).Dur("wait", wait).Msg("Transit API request failed, retrying")
	})
}

func (c *Client) doRequest(ctx context.Context, requestURL string, target any) error {
	requestCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "trainpredict")
	if c.APIKey != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)

		statusErr := fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, requestURL, resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return backoff.Permanent(fmt.Errorf("decoding %s: %w", requestURL, err))
	}

	return nil
}
