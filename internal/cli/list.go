package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/agent-skills/internal/categories"
	"github.com/agentx-labs/agent-skills/internal/manifest"
)

var (
	listInstalled bool
	listAgents    []string
	listGlobal    bool
	listJSON      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available or installed skills",
	Long: `List every available skill grouped by category, or with --installed the
skills present in each agent's skills directory.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listInstalled, "installed", false, "List installed skills instead of available ones")
	listCmd.Flags().StringSliceVarP(&listAgents, "agent", "a", nil, "Agents to inspect with --installed (default: all)")
	listCmd.Flags().BoolVarP(&listGlobal, "global", "g", false, "Inspect global installs")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// categoryGroup is one category and its skills, for JSON output.
type categoryGroup struct {
	Category categories.Info  `json:"category"`
	Skills   []manifest.Skill `json:"skills"`
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	if listInstalled {
		return runListInstalled(cmd, e)
	}

	ctx := cmd.Context()
	skills, err := e.skills(ctx)
	if err != nil {
		return err
	}
	known, err := e.categories(ctx)
	if err != nil {
		return err
	}
	buckets := categories.Group(known, skills)

	if listJSON {
		groups := make([]categoryGroup, 0, len(buckets))
		for _, b := range buckets {
			groups = append(groups, categoryGroup{Category: b.Category, Skills: b.Skills})
		}
		return printJSON(cmd, groups)
	}

	if len(buckets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No skills available.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	for i, b := range buckets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", b.Category.Name, len(b.Skills))
		for _, s := range b.Skills {
			fmt.Fprintf(w, "  %s\t%s\n", s.Name, truncate(s.Description, 60))
		}
	}
	return w.Flush()
}

func runListInstalled(cmd *cobra.Command, e *engine) error {
	targets := listAgents
	if len(targets) == 0 {
		targets = e.table.IDs()
	} else if err := e.table.Validate(targets); err != nil {
		return err
	}

	scope := scopeOf(listGlobal)
	in := e.installer(scope)
	installed := make(map[string][]string)
	for _, id := range targets {
		names, err := in.ListInstalled(id, scope)
		if err != nil {
			return err
		}
		if len(names) > 0 {
			installed[id] = names
		}
	}

	if listJSON {
		return printJSON(cmd, installed)
	}
	if len(installed) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No skills installed.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "AGENT\tSKILL")
	for _, id := range targets {
		for _, name := range installed[id] {
			fmt.Fprintf(w, "%s\t%s\n", id, name)
		}
	}
	return w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
