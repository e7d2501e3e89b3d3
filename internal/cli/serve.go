package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/capreg/internal/app"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the registry and serve it until interrupted",
		Long: `Load every module once, then expose the registry over HTTP:
  /health   registry state (200 once Loaded)
  /modules  the registry snapshot as JSON
The registry is unloaded on shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, v)
		},
	}
	cmd.Flags().Int("healthcheck-port", 8080, "Port for the HTTP health check server. 0 is disabled.")
	if err := v.BindPFlag("healthcheck-port", cmd.Flags().Lookup("healthcheck-port")); err != nil {
		panic(fmt.Sprintf("failed to bind healthcheck-port flag: %v", err))
	}
	return cmd
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := configFrom(v)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.NewApp(ctx, cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}
	a.Logger().Info("Registry loaded.",
		"modules", len(report.Registered),
		"skipped", len(report.Skipped),
		"errors", len(report.Errors()),
		"warnings", len(report.Warnings()))

	return a.Serve(ctx)
}
