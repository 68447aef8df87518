package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/platform/obs"
)

// ORSProvider implements both ports.Geocoder and ports.SegmentRouter using
// OpenRouteService with the heavy goods vehicle profile.
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	client  *apiClient
	baseURL string
	profile string
	country string
}

func NewORSProvider(apiKey string, session *http.Client) (*ORSProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSProvider{
		client:  newAPIClient(session, map[string]string{"Authorization": apiKey}),
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-hgv",
		country: "US",
	}, nil
}

// WithBaseURL points the provider at another ORS instance.
func (o *ORSProvider) WithBaseURL(baseURL string) *ORSProvider {
	o.baseURL = strings.TrimRight(baseURL, "/")
	return o
}

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves an address using /geocode/search.
func (o *ORSProvider) Geocode(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	q := normalize(query)
	if q == "" {
		return domain.Coordinates{}, errors.New("ors geocode: query must be non-empty")
	}

	params := url.Values{}
	params.Set("text", q)
	params.Set("boundary.country", o.country)
	params.Set("size", "1")

	var decoded orsGeocodeResponse
	if err := o.client.fetchJSON(ctx, http.MethodGet, o.baseURL+"/geocode/search", params, nil, &decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", q, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", q, ErrNoResults)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: invalid coordinate format", q)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}

type orsDirectionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Units       string      `json:"units"`
}

type orsDirectionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// Route fetches a truck route using /v2/directions/{profile}.
func (o *ORSProvider) Route(ctx context.Context, start, end domain.Coordinates) (_ domain.SegmentRoute, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	body := orsDirectionsRequest{
		Coordinates: [][]float64{start.CoordsToList(), end.CoordsToList()},
		Units:       "m",
	}

	var decoded orsDirectionsResponse
	endpoint := o.baseURL + "/v2/directions/" + o.profile
	if err := o.client.fetchJSON(ctx, http.MethodPost, endpoint, nil, body, &decoded); err != nil {
		return domain.SegmentRoute{}, fmt.Errorf("ors route: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return domain.SegmentRoute{}, fmt.Errorf("ors route: %w", ErrNoResults)
	}

	route := decoded.Routes[0]
	geometry, err := decodeGeometry(route.Geometry)
	if err != nil {
		return domain.SegmentRoute{}, fmt.Errorf("ors route: %w", err)
	}

	return domain.SegmentRoute{
		DistanceMiles: route.Summary.Distance * metersToMiles,
		DurationHours: route.Summary.Duration / secondsPerHour,
		Geometry:      geometry,
	}, nil
}
