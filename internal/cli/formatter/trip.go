package formatter

import (
	"fmt"
	"strings"
	"time"

	"hos-logbook-service/internal/api/dto"
)

const clockLayout = "Jan 02 15:04"

// RenderTrip renders a planned trip: route summary, stops, then one log
// table per calendar day.
func RenderTrip(t dto.TripResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", StyleBold.Render("Trip"), StyleDim.Render(t.ID.String()))
	fmt.Fprintf(&b, "%s → %s → %s\n", t.CurrentLocation, t.PickupLocation, t.DropoffLocation)
	fmt.Fprintf(&b, "%.1f mi  %.2f h  cycle used %.2f h\n",
		t.RouteSummary.TotalDistance, t.RouteSummary.TotalTimeHours, t.CurrentCycleUsed)
	fmt.Fprintf(&b, "%s %s  %s %s\n\n",
		StyleDim.Render("start"), t.RouteSummary.StartTime.Format(time.RFC3339),
		StyleDim.Render("end"), t.RouteSummary.EndTime.Format(time.RFC3339))

	b.WriteString(StyleHeader.Render("Stops"))
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"TYPE", "LOCATION", "ARRIVAL", "MIN", "DESCRIPTION"}, stopRows(t.Stops)))

	for _, day := range t.DailyLogs {
		b.WriteString("\n")
		b.WriteString(renderDay(day))
	}

	return b.String()
}

func stopRows(stops []dto.StopResponse) [][]string {
	rows := make([][]string, 0, len(stops))
	for _, s := range stops {
		rows = append(rows, []string{
			s.StopTypeDisplay,
			s.Location,
			s.ArrivalTime.Format(clockLayout),
			fmt.Sprintf("%d", s.DurationMinutes),
			s.Description,
		})
	}
	return rows
}

func renderDay(day dto.DailyLogResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s  %s\n", StyleHeader.Render("Log"), day.Date,
		StyleDim.Render(fmt.Sprintf("%s → %s", day.FromLocation, day.ToLocation)))

	rows := make([][]string, 0, len(day.LogEntries))
	for _, e := range day.LogEntries {
		rows = append(rows, []string{
			StatusStyle(e.DutyStatus).Render(e.DutyStatusDisplay),
			e.StartTime.Format("15:04"),
			e.EndTime.Format("15:04"),
			fmt.Sprintf("%.2f", e.DurationHours),
			e.Location,
			e.Notes,
		})
	}
	b.WriteString(RenderTable([]string{"STATUS", "START", "END", "HOURS", "LOCATION", "NOTES"}, rows))

	fmt.Fprintf(&b, "off %.2f  sleeper %.2f  driving %.2f  on duty %.2f  miles %.1f\n",
		day.TotalOffDuty, day.TotalSleeper, day.TotalDriving, day.TotalOnDuty, day.TotalMilesDriving)
	fmt.Fprintf(&b, "%s on duty today %.2f  last 8 days %.2f  available tomorrow %.2f\n",
		StyleDim.Render("recap"), day.Recap.OnDutyToday, day.Recap.TotalLast8Days, day.Recap.AvailableTomorrow)
	if day.Remarks != "" {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render("remarks"), day.Remarks)
	}

	return b.String()
}

// RenderTripList renders stored trip summaries, most recent first.
func RenderTripList(list dto.ListTripsResponse) string {
	if len(list.Trips) == 0 {
		return StyleDim.Render("No trips stored.") + "\n"
	}

	rows := make([][]string, 0, len(list.Trips))
	for _, t := range list.Trips {
		rows = append(rows, []string{
			t.ID.String(),
			t.CurrentLocation,
			t.PickupLocation,
			t.DropoffLocation,
			fmt.Sprintf("%.1f", t.TotalDistance),
			t.CreatedAt.Format(clockLayout),
		})
	}
	return RenderTable([]string{"ID", "CURRENT", "PICKUP", "DROPOFF", "MILES", "CREATED"}, rows)
}
