package domain

// SegmentRoute is the distance, travel time and optional path between two points.
// Fallback is set when the values are estimates rather than routing results.
type SegmentRoute struct {
	DistanceMiles float64
	DurationHours float64
	Geometry      *Geometry
	Fallback      bool
}
