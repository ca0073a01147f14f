// Package geocode resolves street addresses to coordinates through a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNoResults means the service answered but found nothing for the
// address.
var ErrNoResults = errors.New("geocode: no results")

type Point struct {
	Lat float64
	Lon float64
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// New builds a client. Nominatim's usage policy requires an identifying
// User-Agent, so userAgent must not be empty.
func New(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type result struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup geocodes a single address, returning the best match.
func (c *Client) Lookup(ctx context.Context, address string) (Point, error) {
	if address == "" {
		return Point{}, errors.New("geocode: empty address")
	}

	u := c.baseURL + "/search?q=" + url.QueryEscape(address) + "&format=json&limit=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Point{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Point{}, fmt.Errorf("geocode read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocode: HTTP %d: %s", resp.StatusCode, truncate(body, 500))
	}

	var results []result
	if err := json.Unmarshal(body, &results); err != nil {
		return Point{}, fmt.Errorf("geocode: bad response: %w: %s", err, truncate(body, 500))
	}
	if len(results) == 0 {
		return Point{}, fmt.Errorf("%w for %q", ErrNoResults, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("geocode: bad latitude %q", results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("geocode: bad longitude %q", results[0].Lon)
	}

	return Point{Lat: lat, Lon: lon}, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
