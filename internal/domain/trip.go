package domain

import (
	"time"

	"github.com/google/uuid"
)

// RouteSummary aggregates route level figures for a planned trip.
type RouteSummary struct {
	TotalDistanceMiles float64
	TotalTimeHours     float64
	StartTime          time.Time
	EndTime            time.Time
	Geometry           FeatureCollection
	CurrentCoords      Coordinates
	PickupCoords       Coordinates
	DropoffCoords      Coordinates
}

// Trip is the outcome of one planning run: the inputs, the resolved route and
// the HOS-compliant schedule. Intervals and Stops are immutable once planned;
// DailyLogs are derived from Intervals.
type Trip struct {
	ID               uuid.UUID
	CurrentLocation  string
	PickupLocation   string
	DropoffLocation  string
	CurrentCycleUsed float64
	Summary          RouteSummary
	Intervals        []DutyInterval
	Stops            []Stop
	DailyLogs        []DailyLogSheet
	CreatedAt        time.Time
}

// TripSummary is the listing view of a stored trip.
type TripSummary struct {
	ID                 uuid.UUID
	CurrentLocation    string
	PickupLocation     string
	DropoffLocation    string
	CurrentCycleUsed   float64
	TotalDistanceMiles float64
	CreatedAt          time.Time
}
