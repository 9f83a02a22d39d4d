package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	overpassRateLimit  = 2 * time.Second
	overpassMaxRetries = 2
	maxLandmarks       = 20
)

var overpassRetryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// landmarkCategories maps Overpass tag values to the category labels shown to
// reporters. Elements with other tag values are ignored.
var landmarkCategories = map[string]map[string]string{
	"amenity": {
		"school":           "学校",
		"kindergarten":     "幼稚園・保育園",
		"hospital":         "病院",
		"clinic":           "診療所",
		"community_centre": "公民館",
		"townhall":         "役場",
		"place_of_worship": "神社・寺",
		"police":           "交番",
		"fire_station":     "消防署",
		"post_office":      "郵便局",
		"library":          "図書館",
		"parking":          "駐車場",
	},
	"leisure": {
		"park":          "公園",
		"playground":    "遊び場",
		"sports_centre": "運動施設",
		"pitch":         "グラウンド",
	},
	"tourism": {
		"attraction": "観光地",
		"viewpoint":  "展望台",
		"museum":     "博物館",
	},
	"shop": {
		"convenience": "コンビニ",
		"supermarket": "スーパー",
	},
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SearchNearbyLandmarks queries Overpass for named facilities around the point
// and returns at most 20, nearest first. Elements without a name and duplicate
// names are dropped.
func (c *Client) SearchNearbyLandmarks(ctx context.Context, lat, lng float64, radiusMeters int) ([]Landmark, error) {
	c.throttle(&c.lastOverpassCall, overpassRateLimit)

	query := buildOverpassQuery(lat, lng, radiusMeters)

	var resp *http.Response
	var err error
	for attempt := 0; ; attempt++ {
		resp, err = c.postOverpass(ctx, query)
		if err != nil {
			return nil, err
		}
		if !overpassRetryStatuses[resp.StatusCode] || attempt >= overpassMaxRetries {
			break
		}
		resp.Body.Close()
		backoff := time.Duration(1<<attempt) * time.Second
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass: query returned %s", resp.Status)
	}

	var body overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return collectLandmarks(body.Elements, lat, lng), nil
}

func (c *Client) postOverpass(ctx context.Context, query string) (*http.Response, error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.overpassURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	return c.httpClient.Do(req)
}

func buildOverpassQuery(lat, lng float64, radiusMeters int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:10];(")
	for key, values := range landmarkCategories {
		vals := make([]string, 0, len(values))
		for v := range values {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		fmt.Fprintf(&b, "nwr[%q~\"^(%s)$\"](around:%d,%f,%f);",
			key, strings.Join(vals, "|"), radiusMeters, lat, lng)
	}
	b.WriteString(");out center;")
	return b.String()
}

func collectLandmarks(elements []overpassElement, lat, lng float64) []Landmark {
	seen := make(map[string]bool)
	landmarks := make([]Landmark, 0, len(elements))
	for _, el := range elements {
		name := el.Tags["name"]
		if name == "" || seen[name] {
			continue
		}
		category := categorize(el.Tags)
		if category == "" {
			continue
		}
		elat, elng := el.Lat, el.Lon
		if el.Center != nil {
			elat, elng = el.Center.Lat, el.Center.Lon
		}
		if elat == 0 && elng == 0 {
			continue
		}
		seen[name] = true
		landmarks = append(landmarks, Landmark{
			ID:             fmt.Sprintf("osm_%s_%d", el.Type, el.ID),
			Name:           name,
			Category:       category,
			DistanceMeters: int(DistanceMeters(lat, lng, elat, elng)),
			Latitude:       elat,
			Longitude:      elng,
		})
	}
	sort.Slice(landmarks, func(i, j int) bool {
		return landmarks[i].DistanceMeters < landmarks[j].DistanceMeters
	})
	if len(landmarks) > maxLandmarks {
		landmarks = landmarks[:maxLandmarks]
	}
	return landmarks
}

func categorize(tags map[string]string) string {
	for key, values := range landmarkCategories {
		if label := values[tags[key]]; label != "" {
			return label
		}
	}
	return ""
}
