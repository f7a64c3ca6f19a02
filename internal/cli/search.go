package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/agent-skills/internal/manifest"
)

var (
	searchCategoryFilter string
	searchJSON           bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search available skills",
	Long: `Search available skills by name and description (case-insensitive substring).
Use --category to restrict results to one category.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchCategoryFilter, "category", "", "Filter by category id")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	e, err := newEngine()
	if err != nil {
		return err
	}
	skills, err := e.skills(cmd.Context())
	if err != nil {
		return err
	}

	var matches []manifest.Skill
	for _, s := range skills {
		if matchesSearch(s, query, searchCategoryFilter) {
			matches = append(matches, s)
		}
	}

	if searchJSON {
		return printJSON(cmd, matches)
	}

	if len(matches) == 0 {
		msg := "No skills found"
		if query != "" {
			msg += fmt.Sprintf(" matching %q", query)
		}
		if searchCategoryFilter != "" {
			msg += fmt.Sprintf(" in category %s", searchCategoryFilter)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tDESCRIPTION")
	for _, s := range matches {
		category := s.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, category, truncate(s.Description, 60))
	}
	return w.Flush()
}

// matchesSearch returns true if the skill matches all provided filters.
func matchesSearch(s manifest.Skill, query, categoryFilter string) bool {
	if categoryFilter != "" && !strings.EqualFold(s.Category, categoryFilter) {
		return false
	}

	if query != "" {
		q := strings.ToLower(query)
		if !strings.Contains(strings.ToLower(s.Name), q) &&
			!strings.Contains(strings.ToLower(s.Description), q) {
			return false
		}
	}

	return true
}
