package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taskmaster/dashboard/internal/application/views"
)

// NewAnalyticsCommand creates the analytics command with subcommands
func NewAnalyticsCommand() *cobra.Command {
	analyticsCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Dashboard analytics",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export analytics as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.load(cmd.Context()); err != nil {
				return err
			}

			tasks, err := a.dash.Tasks.List(cmd.Context())
			if err != nil {
				return err
			}
			meetings, err := a.dash.Meetings.List(cmd.Context())
			if err != nil {
				return err
			}
			report := views.Analyze(tasks, meetings, a.dash.Today())

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return writeAnalytics(w, report, format)
		},
	}

	exportCmd.Flags().String("format", "json", "Output format: json or yaml")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")

	analyticsCmd.AddCommand(exportCmd)
	return analyticsCmd
}

func writeAnalytics(w io.Writer, report views.Analytics, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}
