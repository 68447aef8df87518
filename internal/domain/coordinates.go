package domain

import "fmt"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Return coordinates as [lon, lat] for GeoJSON and routing API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Key renders the coordinates with five decimals (~1m), suitable as a cache key.
func (c Coordinates) Key() string { return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon) }

// LocationRole identifies which of the three trip locations a name refers to.
// Each role has its own fallback coordinates when geocoding fails.
type LocationRole string

const (
	RoleCurrent LocationRole = "current"
	RolePickup  LocationRole = "pickup"
	RoleDropoff LocationRole = "dropoff"
)
