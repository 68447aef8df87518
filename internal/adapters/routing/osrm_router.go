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

	"github.com/twpayne/go-polyline"
)

const (
	metersToMiles  = 0.000621371
	secondsPerHour = 3600.0
)

// OSRMRouter implements ports.SegmentRouter with the OSRM route service.
type OSRMRouter struct {
	client  *apiClient
	baseURL string
}

func NewOSRMRouter(baseURL string, session *http.Client) (*OSRMRouter, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("osrm base url is empty")
	}

	return &OSRMRouter{
		client:  newAPIClient(session, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

func (r *OSRMRouter) Route(ctx context.Context, start, end domain.Coordinates) (_ domain.SegmentRoute, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	// OSRM expects lon,lat pairs.
	endpoint := fmt.Sprintf("%s/route/v1/driving/%s,%s;%s,%s",
		r.baseURL,
		formatCoord(start.Lon), formatCoord(start.Lat),
		formatCoord(end.Lon), formatCoord(end.Lat),
	)

	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "polyline")

	var decoded osrmResponse
	if err := r.client.fetchJSON(ctx, http.MethodGet, endpoint, params, nil, &decoded); err != nil {
		return domain.SegmentRoute{}, fmt.Errorf("osrm route: %w", err)
	}

	if decoded.Code != "Ok" {
		return domain.SegmentRoute{}, fmt.Errorf("osrm route: code %q: %s", decoded.Code, decoded.Message)
	}
	if len(decoded.Routes) == 0 {
		return domain.SegmentRoute{}, fmt.Errorf("osrm route: %w", ErrNoResults)
	}

	route := decoded.Routes[0]
	geometry, err := decodeGeometry(route.Geometry)
	if err != nil {
		return domain.SegmentRoute{}, fmt.Errorf("osrm route: %w", err)
	}

	return domain.SegmentRoute{
		DistanceMiles: route.Distance * metersToMiles,
		DurationHours: route.Duration / secondsPerHour,
		Geometry:      geometry,
	}, nil
}

// decodeGeometry turns an encoded polyline (precision 5) into a LineString.
// An empty string yields no geometry.
func decodeGeometry(encoded string) (*domain.Geometry, error) {
	if encoded == "" {
		return nil, nil
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}

	return domain.LineString(coords), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
