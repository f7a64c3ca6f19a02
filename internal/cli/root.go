package cli

import (
	"github.com/spf13/cobra"

	"github.com/agentx-labs/agent-skills/internal/branding"
	"github.com/agentx-labs/agent-skills/internal/config"
	"github.com/agentx-labs/agent-skills/internal/logger"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	debugFlag  bool
	sourceFlag string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs curated skills into AI coding agents such as Cursor,
Claude Code and GitHub Copilot, either per project or for the current user.

Skills are fetched from the skills registry CDN and cached locally. Use
--source to install from a local skills tree instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		logger.Initialize(debugFlag || config.Current().Debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "Use a local skills directory instead of the registry")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
