// Package geolocation provides position sources for hosts without a GPS API.
package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/around-app/around/internal/core/domain"
)

// DefaultIPAPIURL is a free IP geolocation endpoint returning {"lat":..,"lon":..}.
const DefaultIPAPIURL = "http://ip-api.com/json/"

// IPLocator resolves the host's approximate position from its public IP.
// Fixes younger than GeoOptions.MaximumAgeMs are served from memory.
type IPLocator struct {
	url  string
	http *http.Client
	now  func() time.Time

	mu      sync.Mutex
	last    domain.GeoPosition
	lastAt  time.Time
	hasLast bool
}

// NewIPLocator creates an IPLocator. An empty url uses DefaultIPAPIURL.
func NewIPLocator(url string, hc *http.Client) *IPLocator {
	if url == "" {
		url = DefaultIPAPIURL
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &IPLocator{url: url, http: hc, now: time.Now}
}

type ipAPIResponse struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CurrentPosition returns a cached fix when allowed, otherwise queries the
// service. The timeout is taken from the context.
func (l *IPLocator) CurrentPosition(ctx context.Context, opts domain.GeoOptions) (domain.GeoPosition, error) {
	if pos, ok := l.cached(opts.MaximumAgeMs); ok {
		return pos, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.GeoPosition{}, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return domain.GeoPosition{}, fmt.Errorf("%w: %v", domain.ErrGeolocationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeoPosition{}, fmt.Errorf("%w: HTTP %d", domain.ErrGeolocationFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.GeoPosition{}, fmt.Errorf("%w: read body: %v", domain.ErrGeolocationFailed, err)
	}
	pos, err := parseIPAPI(body)
	if err != nil {
		return domain.GeoPosition{}, err
	}

	l.mu.Lock()
	l.last, l.lastAt, l.hasLast = pos, l.now(), true
	l.mu.Unlock()
	return pos, nil
}

func (l *IPLocator) cached(maxAgeMs int64) (domain.GeoPosition, bool) {
	if maxAgeMs <= 0 {
		return domain.GeoPosition{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.hasLast || l.now().Sub(l.lastAt) > time.Duration(maxAgeMs)*time.Millisecond {
		return domain.GeoPosition{}, false
	}
	return l.last, true
}

func parseIPAPI(body []byte) (domain.GeoPosition, error) {
	var r ipAPIResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return domain.GeoPosition{}, fmt.Errorf("%w: decode: %v", domain.ErrGeolocationFailed, err)
	}
	if r.Status != "" && r.Status != "success" {
		return domain.GeoPosition{}, fmt.Errorf("%w: %s", domain.ErrGeolocationFailed, r.Message)
	}

	lat, lon := r.Lat, r.Lon
	if lat == nil || lon == nil {
		lat, lon = r.Latitude, r.Longitude
	}
	if lat == nil || lon == nil {
		return domain.GeoPosition{}, fmt.Errorf("%w: response has no coordinates", domain.ErrGeolocationFailed)
	}

	pos := domain.GeoPosition{Lat: *lat, Lon: *lon}
	if err := pos.Validate(); err != nil {
		return domain.GeoPosition{}, fmt.Errorf("%w: %v", domain.ErrGeolocationFailed, err)
	}
	return pos, nil
}
