package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// nominatimRateLimit is the minimum interval between Nominatim requests
// (their usage policy allows at most one request per second).
const nominatimRateLimit = 1100 * time.Millisecond

// Client implements Geocoder over the Nominatim reverse-geocoding API and the
// Overpass API. Requests are rate-limited per client instance.
type Client struct {
	nominatimBaseURL string
	overpassURL      string
	userAgent        string
	httpClient       *http.Client

	mu                sync.Mutex
	lastNominatimCall time.Time
	lastOverpassCall  time.Time
}

// NewClient returns a Geocoder backed by the given Nominatim and Overpass endpoints.
func NewClient(nominatimBaseURL, overpassURL, userAgent string) *Client {
	return &Client{
		nominatimBaseURL: nominatimBaseURL,
		overpassURL:      overpassURL,
		userAgent:        userAgent,
		httpClient:       &http.Client{Timeout: 15 * time.Second},
	}
}

type nominatimResponse struct {
	Address map[string]string `json:"address"`
}

// ReverseGeocode resolves coordinates to a Japanese address. Returns an error
// when the API fails or no usable address components come back; the caller is
// expected to fall back to a raw "lat, lng" string.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*ReverseGeocodeResult, error) {
	c.throttle(&c.lastNominatimCall, nominatimRateLimit)

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lng))
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("accept-language", "ja")
	q.Set("zoom", "18")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.nominatimBaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim: reverse returned %s", resp.Status)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	structured := structuredFromNominatim(body.Address)
	if structured.Prefecture == "" && structured.City == "" {
		return nil, fmt.Errorf("nominatim: no usable address for %f,%f", lat, lng)
	}
	return &ReverseGeocodeResult{Address: structured.Full, Structured: structured}, nil
}

// structuredFromNominatim assembles a structured address from Nominatim
// address components, preferring the most specific value per level.
func structuredFromNominatim(comp map[string]string) *StructuredAddress {
	pick := func(keys ...string) string {
		for _, k := range keys {
			if v := comp[k]; v != "" {
				return v
			}
		}
		return ""
	}

	prefecture := pick("state", "province", "region")
	city := pick("city", "municipality", "town", "village", "county")
	local := joinParts(
		pick("city_district", "borough", "district"),
		pick("suburb", "quarter", "neighbourhood", "hamlet"),
		pick("city_block", "residential", "road"),
	)
	house := comp["house_number"]

	full := joinParts(prefecture, city, local, house)
	s := NormalizeAddress(full)
	s.HouseNumber = house
	return s
}

// throttle sleeps until at least minInterval has passed since *last, then stamps it.
func (c *Client) throttle(last *time.Time, minInterval time.Duration) {
	c.mu.Lock()
	wait := minInterval - time.Since(*last)
	if wait > 0 {
		*last = time.Now().Add(wait)
		c.mu.Unlock()
		time.Sleep(wait)
		return
	}
	*last = time.Now()
	c.mu.Unlock()
}
