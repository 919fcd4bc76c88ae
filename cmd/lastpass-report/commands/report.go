package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/schubergphilis/lastpassreportingcli/internal/config"
	lperrors "github.com/schubergphilis/lastpassreportingcli/internal/errors"
	"github.com/schubergphilis/lastpassreportingcli/internal/metrics"
	"github.com/schubergphilis/lastpassreportingcli/internal/report"
	"github.com/schubergphilis/lastpassreportingcli/pkg/vault"
)

// NewReportCommand creates the report command.
func NewReportCommand(cfg *config.Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report on the current state of secret rotation",
		Long: `Render per folder rotation progress against the cutoff date, as one
table for personal and one for shared folders. By default nested folders
roll up into their root folder; --details reports the full folder tree.`,
		Example: `  # Progress of the whole vault
  lastpass-report report

  # Shared folders only, worst progress first
  lastpass-report report --report-on shared --sort-on percentage

  # Full folder tree under two shared folders, as JSON
  lastpass-report report --details --filter-folders Shared-Ops,Banking --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := reportSettingsFrom(cfg, v)
			if err != nil {
				return err
			}

			client, err := openVault(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeVault(client, cfg)

			return runReport(cmd.Context(), cmd.OutOrStdout(), client, settings)
		},
	}

	flags := cmd.Flags()
	flags.StringP("report-on", "r", "all", "Which categories of secrets to report on: all, personal or shared")
	flags.StringP("sort-on", "s", "name", "Sort the report on folder name or percentage done")
	flags.Bool("reverse-sort", false, "Reverse the sorting order on the chosen key")
	flags.BoolP("details", "d", false, "Report every folder instead of rolling up into root folders")
	flags.StringP("filter-folders", "f", "", "Only report folders whose path starts with one of these comma delimited prefixes")
	flags.String("format", "table", "Output format: table, json or yaml")
	flags.Bool("show-warnings", false, "List the secrets behind each warning count")

	bind(v, flags, "report-on", "LASTPASS_REPORT_ON")
	bind(v, flags, "sort-on", "LASTPASS_SORT_ON")
	bind(v, flags, "reverse-sort", "LASTPASS_SORT_REVERSE")
	bind(v, flags, "details", "LASTPASS_REPORT_DETAIL")
	bind(v, flags, "filter-folders", "LASTPASS_REPORT_FILTER_FOLDERS")
	bind(v, flags, "format", "LASTPASS_REPORT_FORMAT")
	bind(v, flags, "show-warnings", "LASTPASS_REPORT_SHOW_WARNINGS")

	return cmd
}

// reportSettings pairs the aggregation options with the rendering
// options resolved for one report invocation.
type reportSettings struct {
	build  metrics.Options
	render report.Options
}

func reportSettingsFrom(cfg *config.Config, v *viper.Viper) (reportSettings, error) {
	scope, err := report.ParseScope(v.GetString("report-on"))
	if err != nil {
		return reportSettings{}, err
	}
	sortKey, err := report.ParseSortKey(v.GetString("sort-on"))
	if err != nil {
		return reportSettings{}, err
	}
	format, err := report.ParseFormat(v.GetString("format"))
	if err != nil {
		return reportSettings{}, err
	}

	return reportSettings{
		build: metrics.Options{
			Details:        v.GetBool("details"),
			FilterPrefixes: splitList(v.GetString("filter-folders")),
			Cutoff:         cfg.Cutoff,
			Whitelist:      cfg.Whitelist,
		},
		render: report.Options{
			Scope:        scope,
			SortKey:      sortKey,
			Reverse:      v.GetBool("reverse-sort"),
			ShowWarnings: v.GetBool("show-warnings"),
			Format:       format,
			Color:        !cfg.NoColor,
		},
	}, nil
}

func runReport(ctx context.Context, out io.Writer, client vault.Client, settings reportSettings) error {
	secrets, err := client.Secrets(ctx)
	if err != nil {
		return lperrors.VaultError("secret retrieval", err)
	}
	folders, err := client.Folders(ctx)
	if err != nil {
		return lperrors.VaultError("folder retrieval", err)
	}

	rows, err := metrics.Build(secrets, folders, settings.build)
	if err != nil {
		return err
	}
	return report.NewRenderer(out, settings.render).Render(rows)
}
