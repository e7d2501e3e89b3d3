package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/capreg/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const envPrefix = "CAPREG"

// Execute runs the command tree with args. Command output goes to outW,
// logs go to errW.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCmd(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

// NewRootCmd creates the root command with its subcommands. Every command
// gets its own viper instance so trees built in tests do not share state.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "capreg",
		Short: "Module capability discovery and registration",
		Long: `capreg discovers the capabilities (sources, controllers, managers and units)
declared by the host's modules, validates them, and publishes them into a
registry that the rest of the host queries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return readConfigFile(v)
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a config file (yaml, json or toml).")
	flags.String("modules-path", app.DefaultModulesPath, "Directory containing module manifests.")
	flags.String("assets-path", app.DefaultAssetsPath, "Directory containing texture files.")
	flags.String("render-host", "", "URL of a remote render host resolving textures over socket.io.")
	flags.String("render-namespace", "/", "socket.io namespace of the render host.")
	flags.Bool("render-thread", false, "Resolve textures on a dedicated OS thread.")
	flags.Duration("load-timeout", app.DefaultLoadTimeout, "Upper bound on module discovery.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	if err := v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}

	root.AddCommand(newInspectCmd(v), newServeCmd(v))
	return root
}

func readConfigFile(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("failed to read config file %s: %v", path, err)}
	}
	return nil
}

// configFrom builds a validated app.Config from the bound flags, environment
// and config file.
func configFrom(v *viper.Viper) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		ModulesPath:         v.GetString("modules-path"),
		AssetsPath:          v.GetString("assets-path"),
		RenderHostURL:       v.GetString("render-host"),
		RenderHostNamespace: v.GetString("render-namespace"),
		RenderThread:        v.GetBool("render-thread"),
		LoadTimeout:         v.GetDuration("load-timeout"),
		LogFormat:           strings.ToLower(v.GetString("log-format")),
		LogLevel:            strings.ToLower(v.GetString("log-level")),
		HealthcheckPort:     v.GetInt("healthcheck-port"),
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: fmt.Sprintf("invalid configuration: %v", err)}
	}
	return cfg, nil
}
