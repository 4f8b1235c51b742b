package cli

import (
	"fmt"
	"os"

	"github.com/agentx-labs/docmigrate/internal/migration"
	"github.com/fatih/color"
)

// fatih/color disables itself when stdout is not a TTY.
var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
)

func printSection(title string) {
	_, _ = headerColor.Printf("▸ %s\n", title)
}

func printSuccess(msg string) {
	_, _ = successColor.Printf("✓ %s\n", msg)
}

func printWarning(msg string) {
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

// printError prints an error message to stderr.
func printError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

func printLabelValue(label, value string) {
	printLabelValueWithColor(label, value, valueColor)
}

func printLabelValueWithColor(label, value string, valueClr *color.Color) {
	_, _ = labelColor.Printf("  %-12s ", label+":")
	_, _ = valueClr.Println(value)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// stateColor picks the color a migration state is shown in.
func stateColor(s migration.State) *color.Color {
	switch s {
	case migration.StatePending:
		return warningColor
	case migration.StateLocked, migration.StateNoLegacyDirectory:
		return successColor
	default:
		return valueColor
	}
}

func describeState(s migration.State) string {
	switch s {
	case migration.StatePending:
		return "legacy data waiting to be migrated"
	case migration.StateUnsupportedPlatform:
		return "platform has no legacy directory"
	case migration.StateNotStandalone:
		return "not a standalone app"
	case migration.StateNoPaths:
		return "document directory or app id unknown"
	case migration.StateNoLegacyDirectory:
		return "no legacy directory"
	case migration.StateLocked:
		return "already migrated"
	default:
		return ""
	}
}

func formatState(s migration.State) string {
	return fmt.Sprintf("%s (%s)", s, describeState(s))
}
