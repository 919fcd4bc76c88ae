package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/schubergphilis/lastpassreportingcli/internal/config"
	lperrors "github.com/schubergphilis/lastpassreportingcli/internal/errors"
	"github.com/schubergphilis/lastpassreportingcli/internal/export"
	"github.com/schubergphilis/lastpassreportingcli/pkg/vault"
)

// NewExportCommand creates the export command.
func NewExportCommand(cfg *config.Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all secret rotation state for processing",
		Long: `Write one CSV row per secret with its timestamps, rotation status and
warning flag, so the raw state can be processed by other tooling.`,
		Example: `  lastpass-report export --filename rotation-state.csv`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Checked here instead of marking the flag required so the
			// environment variable can satisfy it too.
			filename := v.GetString("filename")
			if filename == "" {
				return lperrors.UserError{
					Message:    "No export filename given",
					Suggestion: "Pass --filename or set LASTPASS_EXPORT_FILENAME",
				}
			}

			client, err := openVault(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeVault(client, cfg)

			return runExport(cmd.Context(), cmd.OutOrStdout(), client, cfg, filename)
		},
	}

	cmd.Flags().StringP("filename", "f", "", "The file to export the secret rotation state to")
	bind(v, cmd.Flags(), "filename", "LASTPASS_EXPORT_FILENAME")

	return cmd
}

func runExport(ctx context.Context, out io.Writer, client vault.Client, cfg *config.Config, filename string) error {
	folders, err := client.Folders(ctx)
	if err != nil {
		return lperrors.VaultError("folder retrieval", err)
	}

	if err := export.ToFile(filename, folders, cfg.Cutoff, cfg.Whitelist); err != nil {
		return err
	}

	fmt.Fprintf(out, "Exported secret data to %s.\n", filename)
	return nil
}
