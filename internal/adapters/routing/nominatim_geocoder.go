package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/platform/obs"
)

// NominatimGeocoder implements ports.Geocoder with the OpenStreetMap
// Nominatim search API. Nominatim's usage policy requires a descriptive
// User-Agent.
type NominatimGeocoder struct {
	client  *apiClient
	baseURL string
}

func NewNominatimGeocoder(baseURL, userAgent string, session *http.Client) (*NominatimGeocoder, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("nominatim base url is empty")
	}
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim user agent is empty")
	}

	return &NominatimGeocoder{
		client:  newAPIClient(session, map[string]string{"User-Agent": userAgent}),
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	q := normalize(query)
	if q == "" {
		return domain.Coordinates{}, errors.New("nominatim geocode: query must be non-empty")
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")

	var places []nominatimPlace
	if err := g.client.fetchJSON(ctx, http.MethodGet, g.baseURL+"/search", params, nil, &places); err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", q, err)
	}

	if len(places) == 0 {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", q, ErrNoResults)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: parse lat: %w", q, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: parse lon: %w", q, err)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}
