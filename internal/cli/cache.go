package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cacheClearRegistry bool
	cacheClearSkill    string
)

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearRegistry, "registry", false, "Clear only the cached registry document")
	cacheClearCmd.Flags().StringVar(&cacheClearSkill, "skill", "", "Clear only one cached skill")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheRefreshCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local registry and skill cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached data",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}

		switch {
		case cacheClearSkill != "":
			if err := e.store.ClearSkill(cacheClearSkill); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared cached skill %s\n", cacheClearSkill)
		case cacheClearRegistry:
			if err := e.store.ClearRegistry(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared cached registry")
		default:
			if err := e.store.ClearAll(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", e.store.Base())
		}
		return nil
	},
}

var cacheRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the registry again, ignoring the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		doc := e.client.FetchRegistry(cmd.Context(), true)
		if doc == nil {
			return fmt.Errorf("registry refresh failed")
		}
		fmt.Fprintln(cmd.OutOrStdout(), printer.Sprintf("Registry %s: %d skills in %d categories",
			doc.Version, len(doc.Skills), len(doc.Categories)))
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), e.client.CacheDir())
		return nil
	},
}
