package cli

import (
	"fmt"

	"hos-logbook-service/internal/api/dto"
	"hos-logbook-service/internal/app"
	"hos-logbook-service/internal/cli/formatter"
	"hos-logbook-service/internal/services"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newShowCmd(env *Env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Print a stored trip with recomputed daily logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid trip id %q", args[0])
			}

			a, err := env.openApp(cmd.Context(), app.Options{Offline: true})
			if err != nil {
				return err
			}
			defer a.Close()

			trip, err := a.Planner.GetTrip(cmd.Context(), id)
			if err != nil {
				return err
			}

			resp := dto.NewTripResponse(trip)
			return env.render(cmd.OutOrStdout(), asJSON, resp, func() string {
				return formatter.RenderTrip(resp)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON even on a terminal")

	return cmd
}

func newListCmd(env *Env) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored trips, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.openApp(cmd.Context(), app.Options{Offline: true})
			if err != nil {
				return err
			}
			defer a.Close()

			trips, err := a.Planner.ListTrips(cmd.Context(), limit)
			if err != nil {
				return err
			}

			resp := dto.NewListTripsResponse(trips)
			return env.render(cmd.OutOrStdout(), asJSON, resp, func() string {
				return formatter.RenderTripList(resp)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", services.DefaultListLimit, "maximum number of trips")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON even on a terminal")

	return cmd
}

func newDeleteCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Remove a stored trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid trip id %q", args[0])
			}

			a, err := env.openApp(cmd.Context(), app.Options{Offline: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Planner.DeleteTrip(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted trip %s.\n", id)
			return nil
		},
	}
}
