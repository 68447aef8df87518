package dto

import (
	"math"
	"time"

	"hos-logbook-service/internal/domain"

	"github.com/google/uuid"
)

type CalculateTripRequest struct {
	CurrentLocation  string     `json:"current_location"`
	PickupLocation   string     `json:"pickup_location"`
	DropoffLocation  string     `json:"dropoff_location"`
	CurrentCycleUsed *float64   `json:"current_cycle_used"`
	StartTime        *time.Time `json:"start_time"`
}

type LogEntryResponse struct {
	DutyStatus        string    `json:"duty_status"`
	DutyStatusDisplay string    `json:"duty_status_display"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	Location          string    `json:"location"`
	DurationHours     float64   `json:"duration_hours"`
	Notes             string    `json:"notes,omitempty"`
}

type StopResponse struct {
	StopType        string    `json:"stop_type"`
	StopTypeDisplay string    `json:"stop_type_display"`
	Location        string    `json:"location"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	ArrivalTime     time.Time `json:"arrival_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description"`
}

type RecapResponse struct {
	OnDutyToday       float64 `json:"on_duty_today"`
	TotalLast8Days    float64 `json:"total_last_8_days"`
	AvailableTomorrow float64 `json:"available_tomorrow"`
}

type DailyLogResponse struct {
	Date              string             `json:"date"`
	TotalMilesDriving float64            `json:"total_miles_driving"`
	TotalMileageToday float64            `json:"total_mileage_today"`
	TotalOffDuty      float64            `json:"total_off_duty"`
	TotalSleeper      float64            `json:"total_sleeper"`
	TotalDriving      float64            `json:"total_driving"`
	TotalOnDuty       float64            `json:"total_on_duty"`
	FromLocation      string             `json:"from_location"`
	ToLocation        string             `json:"to_location"`
	LogEntries        []LogEntryResponse `json:"log_entries"`
	Remarks           string             `json:"remarks"`
	Recap             RecapResponse      `json:"recap"`
}

type RouteSummaryResponse struct {
	TotalDistance  float64                  `json:"total_distance"`
	TotalTimeHours float64                  `json:"total_time_hours"`
	StartTime      time.Time                `json:"start_time"`
	EndTime        time.Time                `json:"end_time"`
	RouteGeometry  domain.FeatureCollection `json:"route_geometry"`
	CurrentCoords  domain.Coordinates       `json:"current_coords"`
	PickupCoords   domain.Coordinates       `json:"pickup_coords"`
	DropoffCoords  domain.Coordinates       `json:"dropoff_coords"`
}

type TripResponse struct {
	ID               uuid.UUID            `json:"id"`
	CurrentLocation  string               `json:"current_location"`
	PickupLocation   string               `json:"pickup_location"`
	DropoffLocation  string               `json:"dropoff_location"`
	CurrentCycleUsed float64              `json:"current_cycle_used"`
	RouteSummary     RouteSummaryResponse `json:"route_summary"`
	LogEntries       []LogEntryResponse   `json:"log_entries"`
	Stops            []StopResponse       `json:"stops"`
	DailyLogs        []DailyLogResponse   `json:"daily_logs"`
	CreatedAt        time.Time            `json:"created_at"`
}

type TripListItemResponse struct {
	ID               uuid.UUID `json:"id"`
	CurrentLocation  string    `json:"current_location"`
	PickupLocation   string    `json:"pickup_location"`
	DropoffLocation  string    `json:"dropoff_location"`
	CurrentCycleUsed float64   `json:"current_cycle_used"`
	TotalDistance    float64   `json:"total_distance"`
	CreatedAt        time.Time `json:"created_at"`
}

type ListTripsResponse struct {
	Trips []TripListItemResponse `json:"trips"`
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func NewLogEntries(intervals []domain.DutyInterval) []LogEntryResponse {
	out := make([]LogEntryResponse, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, LogEntryResponse{
			DutyStatus:        string(iv.Status),
			DutyStatusDisplay: iv.Status.Label(),
			StartTime:         iv.Start,
			EndTime:           iv.End,
			Location:          iv.Location,
			DurationHours:     round2(iv.Hours()),
			Notes:             iv.Notes,
		})
	}
	return out
}

func NewStops(stops []domain.Stop) []StopResponse {
	out := make([]StopResponse, 0, len(stops))
	for _, s := range stops {
		sr := StopResponse{
			StopType:        string(s.Type),
			StopTypeDisplay: s.Label(),
			Location:        s.Location,
			ArrivalTime:     s.Arrival,
			DurationMinutes: s.DurationMinutes,
			Description:     s.Description,
		}
		if s.Coordinates != nil {
			lat, lon := s.Coordinates.Lat, s.Coordinates.Lon
			sr.Latitude, sr.Longitude = &lat, &lon
		}
		out = append(out, sr)
	}
	return out
}

func NewDailyLogs(sheets []domain.DailyLogSheet) []DailyLogResponse {
	out := make([]DailyLogResponse, 0, len(sheets))
	for _, s := range sheets {
		out = append(out, DailyLogResponse{
			Date:              s.Date.Format(time.DateOnly),
			TotalMilesDriving: s.TotalMilesDriving,
			TotalMileageToday: s.TotalMileageToday,
			TotalOffDuty:      s.TotalOffDuty,
			TotalSleeper:      s.TotalSleeper,
			TotalDriving:      s.TotalDriving,
			TotalOnDuty:       s.TotalOnDuty,
			FromLocation:      s.FromLocation,
			ToLocation:        s.ToLocation,
			LogEntries:        NewLogEntries(s.Entries),
			Remarks:           s.Remarks,
			Recap: RecapResponse{
				OnDutyToday:       s.Recap.OnDutyToday,
				TotalLast8Days:    s.Recap.TotalLast8Days,
				AvailableTomorrow: s.Recap.AvailableTomorrow,
			},
		})
	}
	return out
}

func NewTripResponse(t *domain.Trip) TripResponse {
	s := t.Summary
	return TripResponse{
		ID:               t.ID,
		CurrentLocation:  t.CurrentLocation,
		PickupLocation:   t.PickupLocation,
		DropoffLocation:  t.DropoffLocation,
		CurrentCycleUsed: t.CurrentCycleUsed,
		RouteSummary: RouteSummaryResponse{
			TotalDistance:  round2(s.TotalDistanceMiles),
			TotalTimeHours: round2(s.TotalTimeHours),
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			RouteGeometry:  s.Geometry,
			CurrentCoords:  s.CurrentCoords,
			PickupCoords:   s.PickupCoords,
			DropoffCoords:  s.DropoffCoords,
		},
		LogEntries: NewLogEntries(t.Intervals),
		Stops:      NewStops(t.Stops),
		DailyLogs:  NewDailyLogs(t.DailyLogs),
		CreatedAt:  t.CreatedAt,
	}
}

func NewListTripsResponse(trips []domain.TripSummary) ListTripsResponse {
	res := ListTripsResponse{Trips: make([]TripListItemResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, TripListItemResponse{
			ID:               t.ID,
			CurrentLocation:  t.CurrentLocation,
			PickupLocation:   t.PickupLocation,
			DropoffLocation:  t.DropoffLocation,
			CurrentCycleUsed: t.CurrentCycleUsed,
			TotalDistance:    round2(t.TotalDistanceMiles),
			CreatedAt:        t.CreatedAt,
		})
	}
	return res
}
