package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/schubergphilis/lastpassreportingcli/internal/config"
	lperrors "github.com/schubergphilis/lastpassreportingcli/internal/errors"
)

// NewRootCommand builds the command tree. Every flag is mirrored by a
// LASTPASS_ environment variable through viper; an explicit flag beats
// the environment, the environment beats the default.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "lastpass-report",
		Short: "Report on the state of secret rotation in a Lastpass vault",
		Long: `A tool to report on the state of secret rotation based on a cutoff day,
by default the day of the Lastpass incident.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Load(config.Settings{
				LogLevel:         v.GetString("log-level"),
				LogConfigFile:    v.GetString("log-config"),
				Username:         v.GetString("username"),
				Password:         v.GetString("password"),
				OTP:              v.GetString("mfa"),
				WarningWhitelist: splitList(v.GetString("warning-whitelist")),
				CutoffDate:       v.GetString("cutoff-date"),
				NonInteractive:   v.GetBool("non-interactive"),
				NoColor:          v.GetBool("no-color"),
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Mirrors the argument validation failure of running
			// without a subcommand, after showing what is available.
			_ = cmd.Help()
			return lperrors.UserError{
				Message: `Please specify one of "report" or "export" as the first argument.`,
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("log-level", "L", "info", "The log level: debug, info, warning, error or critical")
	flags.StringP("log-config", "l", "", "The location of a logging config json file")
	flags.StringP("username", "u", "", "The username to connect to lastpass as, prompted for when missing")
	flags.StringP("password", "p", "", "The password to connect to lastpass with, prompted for when missing")
	flags.StringP("mfa", "m", "", "The MFA code to connect to lastpass with, prompted for when missing")
	flags.StringP("warning-whitelist", "w", "", "A comma delimited list of secret ids to disregard from the reports")
	flags.String("cutoff-date", config.DefaultCutoffDate, "The rotation cutoff date in YYYY-MM-DD format")
	flags.Bool("non-interactive", false, "Fail instead of prompting for missing credentials")
	flags.Bool("no-color", false, "Disable colored output")

	bind(v, flags, "log-level", "LASTPASS_LOG_LEVEL")
	bind(v, flags, "log-config", "LASTPASS_LOG_CONFIG")
	bind(v, flags, "username", "LASTPASS_USERNAME")
	bind(v, flags, "password", "LASTPASS_PASSWORD")
	bind(v, flags, "mfa", "LASTPASS_MFA")
	bind(v, flags, "warning-whitelist", "LASTPASS_WARNING_WHITELIST")
	bind(v, flags, "cutoff-date", "LASTPASS_CUTOFF_DATE")
	bind(v, flags, "non-interactive", "LASTPASS_NON_INTERACTIVE")
	bind(v, flags, "no-color", "LASTPASS_NO_COLOR")

	rootCmd.AddCommand(
		NewReportCommand(cfg, v),
		NewExportCommand(cfg, v),
	)

	return rootCmd
}

// bind wires one flag to its environment variable on the shared viper
// instance.
func bind(v *viper.Viper, flags *pflag.FlagSet, name, envName string) {
	_ = v.BindPFlag(name, flags.Lookup(name))
	_ = v.BindEnv(name, envName)
}

// splitList turns a comma delimited flag value into its entries,
// dropping empty segments so a trailing comma does not produce one.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
