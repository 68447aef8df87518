package cli

import (
	"fmt"

	"hos-logbook-service/internal/app"

	"github.com/spf13/cobra"
)

func newMigrateCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the trip store and route cache tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.loadConfig()
			if err != nil {
				return err
			}

			conn, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%s).\n", cfg.Dialect())
			return nil
		},
	}
}
