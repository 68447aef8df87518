package formatter

import (
	"strings"
	"testing"
	"time"

	"hos-logbook-service/internal/api/dto"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "LONGER"}, [][]string{
		{"wide cell", "x"},
		{StyleGreen.Render("ok"), "y"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	// Second column starts at the same visible offset on every data row.
	assert.Equal(t, strings.Index(lines[2], "x"), lipgloss.Width("wide cell")+2)
	assert.Equal(t, lipgloss.Width(lines[2]), lipgloss.Width(lines[3]))
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))

	out := RenderTable([]string{"ID"}, nil)
	assert.Contains(t, out, "ID")
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 2)
}

func TestRenderTrip(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	trip := dto.TripResponse{
		ID:              uuid.New(),
		CurrentLocation: "Los Angeles",
		PickupLocation:  "Phoenix",
		DropoffLocation: "Dallas",
		RouteSummary: dto.RouteSummaryResponse{
			TotalDistance:  1200,
			TotalTimeHours: 40.5,
			StartTime:      start,
			EndTime:        start.Add(40*time.Hour + 30*time.Minute),
		},
		Stops: []dto.StopResponse{{
			StopType: "PICKUP", StopTypeDisplay: "Pickup", Location: "Phoenix",
			ArrivalTime: start.Add(4 * time.Hour), DurationMinutes: 60, Description: "Loading",
		}},
		DailyLogs: []dto.DailyLogResponse{{
			Date:         "2026-03-02",
			FromLocation: "Los Angeles",
			ToLocation:   "Phoenix",
			LogEntries: []dto.LogEntryResponse{{
				DutyStatus: "DRIVING", DutyStatusDisplay: "Driving",
				StartTime: start, EndTime: start.Add(4 * time.Hour), DurationHours: 4, Location: "Los Angeles",
			}},
			TotalDriving: 4,
			Remarks:      "Pickup at Phoenix",
		}},
	}

	out := RenderTrip(trip)

	assert.Contains(t, out, trip.ID.String())
	assert.Contains(t, out, "Los Angeles → Phoenix → Dallas")
	assert.Contains(t, out, "1200.0 mi")
	assert.Contains(t, out, "Loading")
	assert.Contains(t, out, "2026-03-02")
	assert.Contains(t, out, "Driving")
	assert.Contains(t, out, "Pickup at Phoenix")
}

func TestRenderTripList(t *testing.T) {
	assert.Contains(t, RenderTripList(dto.ListTripsResponse{}), "No trips stored.")

	id := uuid.New()
	out := RenderTripList(dto.ListTripsResponse{Trips: []dto.TripListItemResponse{{
		ID: id, CurrentLocation: "A", PickupLocation: "B", DropoffLocation: "C", TotalDistance: 12.34,
	}}})
	assert.Contains(t, out, id.String())
	assert.Contains(t, out, "12.3")
}
