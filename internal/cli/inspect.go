package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/capreg/internal/app"
	"github.com/vk/capreg/internal/registry"
)

// inspection is the document printed by the inspect command.
type inspection struct {
	registry.Snapshot `yaml:",inline"`
	Skipped           []string           `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Diagnostics       []diagnosticOutput `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

type diagnosticOutput struct {
	Severity   string `json:"severity" yaml:"severity"`
	Module     string `json:"module,omitempty" yaml:"module,omitempty"`
	Capability string `json:"capability,omitempty" yaml:"capability,omitempty"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Message    string `json:"message" yaml:"message"`
}

func newInspectCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Discover modules and print the resulting registry",
		Long: `Load every compiled and manifest module, classify their capabilities and
print what was registered together with the load diagnostics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, v)
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format. Options: 'text', 'json' or 'yaml'.")
	cmd.Flags().String("source", "", "Print one Source, looked up by qualified name or resource path.")
	cmd.Flags().Bool("strict", false, "Exit with a non-zero code when any registration error was reported.")
	return cmd
}

func runInspect(cmd *cobra.Command, v *viper.Viper) error {
	output, _ := cmd.Flags().GetString("output")
	source, _ := cmd.Flags().GetString("source")
	strict, _ := cmd.Flags().GetBool("strict")
	if !validFormat(output) {
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid output format %q: must be 'text', 'json' or 'yaml'", output)}
	}

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

	out := cmd.OutOrStdout()
	if source != "" {
		rs, ok := a.Registry().FindSource(source)
		if !ok {
			return &ExitError{Code: 1, Message: fmt.Sprintf("source %q is not registered", source)}
		}
		return encodeSource(out, output, registry.SummarizeSource(rs))
	}

	doc := inspection{Snapshot: a.Registry().Snapshot(), Skipped: report.Skipped}
	for _, d := range report.Diagnostics {
		diag := diagnosticOutput{
			Severity: d.Severity.String(),
			Module:   d.Module,
			Type:     d.Type,
			Message:  d.Err.Error(),
		}
		if d.Capability.Valid() {
			diag.Capability = d.Capability.String()
		}
		doc.Diagnostics = append(doc.Diagnostics, diag)
	}
	if err := encodeInspection(out, output, doc); err != nil {
		return err
	}

	if strict && report.HasErrors() {
		return &ExitError{Code: 1, Message: report.Err().Error()}
	}
	return nil
}
