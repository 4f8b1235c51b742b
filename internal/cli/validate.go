package cli

import (
	"fmt"

	"github.com/agentx-labs/docmigrate/internal/manifest"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <manifest>",
	Short: "Validate an app manifest",
	Long:  `Check an app manifest (YAML, or JSON optionally wrapped in an "expo" key) against the manifest schema.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		result, err := manifest.ValidateFile(path)
		if err != nil {
			return err
		}

		if result.Valid {
			printSuccess(path + " is valid")
			return nil
		}

		printSection(fmt.Sprintf("%s: %d issue(s)", path, len(result.Issues)))
		for _, issue := range result.Issues {
			location := issue.Path
			if location == "" {
				location = "(root)"
			}
			printLabelValueWithColor(location, fmt.Sprintf("%s [%s]", issue.Message, issue.Keyword), errorColor)
		}
		return fmt.Errorf("manifest %s is invalid", path)
	},
}
