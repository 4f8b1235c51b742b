package cli

import (
	"encoding/json"
	"fmt"

	"github.com/agentx-labs/docmigrate/internal/branding"
	"github.com/agentx-labs/docmigrate/internal/migration"
	"github.com/agentx-labs/docmigrate/internal/platform"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// versionInfo is the --json payload. The lock marker name is part of it
// because installs migrated by one release must stay locked for the next.
type versionInfo struct {
	Version    string   `json:"version"`
	Commit     string   `json:"commit"`
	Date       string   `json:"date"`
	Repo       string   `json:"repo"`
	LockFile   string   `json:"lock_file"`
	Platform   string   `json:"platform"`
	Strategies []string `json:"strategies"`
}

func currentVersionInfo() versionInfo {
	strategies := make([]string, 0, len(migration.Strategies()))
	for _, s := range migration.Strategies() {
		strategies = append(strategies, string(s))
	}
	return versionInfo{
		Version:    buildVersion,
		Commit:     buildCommit,
		Date:       buildDate,
		Repo:       branding.GitHubRepo(),
		LockFile:   migration.LockFileName,
		Platform:   platform.Supported.String(),
		Strategies: strategies,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and migration format information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		info := currentVersionInfo()
		if versionJSON {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s %s (commit %s, built %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		fmt.Fprintf(out, "migrates %s data, lock marker %q\n", info.Platform, info.LockFile)
		return nil
	},
}
