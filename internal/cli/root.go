package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"hos-logbook-service/internal/app"
	"hos-logbook-service/internal/config"
	"hos-logbook-service/internal/platform/logger"

	"github.com/spf13/cobra"
)

// Env carries process-level dependencies the commands need.
type Env struct {
	// IsInteractive reports whether stdin is a terminal. Prompts and table
	// output are only used when it returns true.
	IsInteractive func() bool
	// Prompt asks for missing plan inputs. Defaults to a huh form.
	Prompt func(*PlanInput) error

	configDir string
}

func (e *Env) interactive() bool {
	return e.IsInteractive != nil && e.IsInteractive()
}

// NewRootCmd builds the tripctl command tree.
func NewRootCmd(env *Env) *cobra.Command {
	if env.Prompt == nil {
		env.Prompt = promptPlanInput
	}

	root := &cobra.Command{
		Use:           "tripctl",
		Short:         "Plan HOS-compliant trips and print driver daily logs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&env.configDir, "config-dir", ".", "directory holding the .env file")

	root.AddCommand(
		newMigrateCmd(env),
		newPlanCmd(env),
		newShowCmd(env),
		newListCmd(env),
		newDeleteCmd(env),
	)

	return root
}

func (e *Env) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(e.configDir)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func (e *Env) openApp(ctx context.Context, opts app.Options) (*app.App, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, opts)
}

// render writes v as indented JSON unless asJSON is false and the session is
// interactive, in which case the table form is written.
func (e *Env) render(w io.Writer, asJSON bool, v any, table func() string) error {
	if !asJSON && e.interactive() {
		_, err := io.WriteString(w, table())
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
