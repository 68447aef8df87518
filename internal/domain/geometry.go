package domain

// Geometry is a GeoJSON geometry. Route segments use LineString with
// [lon, lat] positions.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

const (
	SegmentToPickup  = "to_pickup"
	SegmentToDropoff = "to_dropoff"
)

// NewFeatureCollection returns an empty, valid collection.
func NewFeatureCollection() FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
}

// AddSegment appends a feature for the named segment. A nil geometry adds nothing.
func (fc *FeatureCollection) AddSegment(name string, g *Geometry) {
	if g == nil {
		return
	}
	fc.Features = append(fc.Features, Feature{
		Type:       "Feature",
		Geometry:   *g,
		Properties: map[string]string{"segment": name},
	})
}

// LineString builds a LineString geometry from [lat, lon] pairs as returned by
// polyline decoders.
func LineString(latLon [][]float64) *Geometry {
	coords := make([][]float64, 0, len(latLon))
	for _, p := range latLon {
		if len(p) < 2 {
			continue
		}
		coords = append(coords, []float64{p[1], p[0]})
	}
	return &Geometry{Type: "LineString", Coordinates: coords}
}
