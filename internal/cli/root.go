package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/agentx-labs/docmigrate/internal/branding"
	"github.com/agentx-labs/docmigrate/internal/config"
	"github.com/agentx-labs/docmigrate/internal/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Per-run state populated by the root pre-run hook.
var (
	settings  config.Settings
	logger    = zerolog.Nop()
	logCloser io.Closer
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(config.FlagName(config.KeyDocumentDir), "", "Document directory of the app (the new data root)")
	flags.String(config.FlagName(config.KeyManifest), "", "App manifest (YAML or JSON) to read the app id from")
	flags.String(config.FlagName(config.KeyAppID), "", "App id, e.g. @owner/slug (overrides the manifest)")
	flags.String(config.FlagName(config.KeyPlatform), "", "Platform identifier (default: the host OS)")
	flags.String(config.FlagName(config.KeyOwnership), "", "Ownership mode: standalone, expo or guest")
	flags.String(config.FlagName(config.KeyLogLevel), "", "Log level: debug, info, warn, error")
	flags.String(config.FlagName(config.KeyLogFile), "", "Also write JSON logs to this file (rotated)")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` moves app files left behind in the legacy per-app sandbox
(<document dir>/ExperienceData/<app id>) into the app's document directory, once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		if err := config.BindFlags(cmd.Flags()); err != nil {
			return err
		}

		s, err := config.Resolve()
		if err != nil {
			return err
		}
		settings = s

		l, closer, err := logging.New(logging.Options{
			Level: s.LogLevel,
			File:  s.LogFile,
		})
		if err != nil {
			return err
		}
		logger = l.With().Str("run_id", uuid.NewString()).Logger()
		logCloser = closer
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	// PersistentPostRun is skipped when RunE fails.
	closeLog()
	if err != nil {
		printError(err.Error())
	}
	return err
}

func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}
