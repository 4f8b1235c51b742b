package cli

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/docmigrate/internal/config"
	"github.com/agentx-labs/docmigrate/internal/migration"
	"github.com/agentx-labs/docmigrate/internal/storage"
	"github.com/spf13/cobra"
)

var migrateBulk bool

func init() {
	names := make([]string, 0, len(migration.Strategies()))
	for _, s := range migration.Strategies() {
		names = append(names, string(s))
	}

	migrateCmd.Flags().BoolVar(&migrateBulk, "bulk", false, "Copy the legacy directory in one go and delete it, without a resolver or lock")
	migrateCmd.Flags().String(config.FlagName(config.KeyOnConflict), "", "Conflict strategy: "+strings.Join(names, ", ")+" (default keep)")
	migrateCmd.Flags().Int(config.FlagName(config.KeyConcurrency), 0, "Max concurrent walks per directory (0 = unlimited)")
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move legacy app data into the document directory",
	Long: `Merge the legacy per-app directory into the document directory.

Files missing from the document directory are moved over. Files present on
both sides are handed to the conflict strategy. Once the merge completes a
lock marker is written into the legacy directory so the merge never runs again.
With --bulk the legacy directory is copied wholesale and removed instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnvironment(settings)
		if err != nil {
			return err
		}

		fsys := storage.NewOS()
		migrator := migration.NewMigrator(fsys, env,
			migration.WithLogger(logger),
			migration.WithMergeOptions(migration.WithMaxConcurrency(settings.Concurrency)),
		)

		var resolver migration.ConflictResolver
		if !migrateBulk {
			strategy, err := migration.ParseStrategy(settings.OnConflict)
			if err != nil {
				return err
			}
			resolver, err = migration.NewResolver(strategy, fsys)
			if err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		before, err := migrator.Status(ctx)
		if err != nil {
			return fmt.Errorf("checking migration status: %w", err)
		}
		if before.State != migration.StatePending {
			printWarning("Nothing to migrate: " + formatState(before.State))
			return nil
		}

		if err := migrator.Migrate(ctx, resolver); err != nil {
			return fmt.Errorf("migrating %s: %w", before.LegacyDir, err)
		}
		printSuccess(fmt.Sprintf("Migrated %s into %s", before.LegacyDir, before.NewDir))
		return nil
	},
}
