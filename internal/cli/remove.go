package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	removeAgents []string
	removeGlobal bool
)

var removeCmd = &cobra.Command{
	Use:     "remove <skill>",
	Aliases: []string{"uninstall"},
	Short:   "Remove an installed skill",
	Long: `Remove a skill from the selected agents and delete its canonical copy.
Without --agent, the skill is removed from every agent that has it installed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().StringSliceVarP(&removeAgents, "agent", "a", nil, "Agents to remove the skill from")
	removeCmd.Flags().BoolVarP(&removeGlobal, "global", "g", false, "Remove a global install")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	e, err := newEngine()
	if err != nil {
		return err
	}
	scope := scopeOf(removeGlobal)
	in := e.installer(scope)

	targets := removeAgents
	if len(targets) == 0 {
		for _, id := range e.table.IDs() {
			if in.IsInstalled(name, id, scope) {
				targets = append(targets, id)
			}
		}
	} else if err := e.table.Validate(targets); err != nil {
		return err
	}

	if len(targets) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is not installed.\n", name)
		return nil
	}

	failed := 0
	for _, r := range in.Remove(name, targets, scope) {
		if r.Success {
			fmt.Fprintf(cmd.OutOrStdout(), "  ✓ removed from %s\n", targetLabel(r.Target, r.TargetName))
			continue
		}
		failed++
		fmt.Fprintf(cmd.OutOrStdout(), "  ✗ %s: %s\n", targetLabel(r.Target, r.TargetName), r.Error)
	}

	if failed > 0 {
		return fmt.Errorf("removal failed for %d %s", failed, plural(failed, "agent", "agents"))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
	return nil
}
