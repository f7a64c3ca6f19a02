package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var categoriesJSON bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List skill categories",
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	list, err := e.categories(cmd.Context())
	if err != nil {
		return err
	}

	if categoriesJSON {
		return printJSON(cmd, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No categories found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tDESCRIPTION")
	for _, c := range list {
		desc := c.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.ID, c.Name, c.Priority, truncate(desc, 50))
	}
	return w.Flush()
}
