package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hos-logbook-service/internal/api/dto"
	"hos-logbook-service/internal/app"
	"hos-logbook-service/internal/cli/formatter"
	"hos-logbook-service/internal/services"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// PlanInput holds the trip inputs gathered from flags or prompts.
type PlanInput struct {
	Current string
	Pickup  string
	Dropoff string
	Cycle   string
}

func (in PlanInput) missing() []string {
	var names []string
	if strings.TrimSpace(in.Current) == "" {
		names = append(names, "--current")
	}
	if strings.TrimSpace(in.Pickup) == "" {
		names = append(names, "--pickup")
	}
	if strings.TrimSpace(in.Dropoff) == "" {
		names = append(names, "--dropoff")
	}
	return names
}

func newPlanCmd(env *Env) *cobra.Command {
	var (
		in      PlanInput
		start   string
		offline bool
		asJSON  bool
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a trip and print its daily logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(in.missing()) > 0 && env.interactive() {
				if err := env.Prompt(&in); err != nil {
					return err
				}
			}
			if missing := in.missing(); len(missing) > 0 {
				return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
			}

			cycle, err := parseCycle(in.Cycle)
			if err != nil {
				return err
			}

			req := services.PlanTripRequest{
				CurrentLocation:  in.Current,
				PickupLocation:   in.Pickup,
				DropoffLocation:  in.Dropoff,
				CurrentCycleUsed: cycle,
			}
			if start != "" {
				req.StartTime, err = time.Parse(time.RFC3339, start)
				if err != nil {
					return fmt.Errorf("invalid --start %q: want RFC 3339", start)
				}
			}

			a, err := env.openApp(cmd.Context(), app.Options{Offline: offline, Ephemeral: !save})
			if err != nil {
				return err
			}
			defer a.Close()

			trip, err := a.Planner.PlanTrip(cmd.Context(), req)
			if err != nil {
				return err
			}

			resp := dto.NewTripResponse(trip)
			return env.render(cmd.OutOrStdout(), asJSON, resp, func() string {
				return formatter.RenderTrip(resp)
			})
		},
	}

	cmd.Flags().StringVar(&in.Current, "current", "", "current location")
	cmd.Flags().StringVar(&in.Pickup, "pickup", "", "pickup location")
	cmd.Flags().StringVar(&in.Dropoff, "dropoff", "", "dropoff location")
	cmd.Flags().StringVar(&in.Cycle, "cycle", "0", "hours already used in the 70-hour cycle")
	cmd.Flags().StringVar(&start, "start", "", "trip start time (RFC 3339); defaults to today at TRIP_START_HOUR")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip geocoding and routing providers and use fallbacks")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON even on a terminal")
	cmd.Flags().BoolVar(&save, "save", false, "store the planned trip")

	return cmd
}

func parseCycle(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cycle hours %q", s)
	}
	return v, nil
}

func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func promptPlanInput(in *PlanInput) error {
	var fields []huh.Field
	if strings.TrimSpace(in.Current) == "" {
		fields = append(fields, huh.NewInput().
			Title("Current location").
			Placeholder("Los Angeles, CA").
			Value(&in.Current).
			Validate(requiredField("current location")))
	}
	if strings.TrimSpace(in.Pickup) == "" {
		fields = append(fields, huh.NewInput().
			Title("Pickup location").
			Placeholder("Phoenix, AZ").
			Value(&in.Pickup).
			Validate(requiredField("pickup location")))
	}
	if strings.TrimSpace(in.Dropoff) == "" {
		fields = append(fields, huh.NewInput().
			Title("Dropoff location").
			Placeholder("Dallas, TX").
			Value(&in.Dropoff).
			Validate(requiredField("dropoff location")))
	}
	fields = append(fields, huh.NewInput().
		Title("Cycle hours used").
		Value(&in.Cycle).
		Validate(func(s string) error {
			_, err := parseCycle(s)
			return err
		}))

	return huh.NewForm(huh.NewGroup(fields...)).Run()
}
