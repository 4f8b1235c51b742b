package cli

import (
	"fmt"

	"github.com/agentx-labs/docmigrate/internal/migration"
	"github.com/agentx-labs/docmigrate/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a migration is pending",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnvironment(settings)
		if err != nil {
			return err
		}

		st, err := migration.NewMigrator(storage.NewOS(), env, migration.WithLogger(logger)).Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("checking migration status: %w", err)
		}

		printSection("Migration status")
		printLabelValue("Platform", env.Platform.String())
		printLabelValue("Ownership", env.Ownership.String())
		printLabelValue("App id", orNone(env.AppID))
		printLabelValue("Legacy dir", orNone(st.LegacyDir))
		printLabelValue("New dir", orNone(st.NewDir))
		printLabelValueWithColor("State", formatState(st.State), stateColor(st.State))
		return nil
	},
}
