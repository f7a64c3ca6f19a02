package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/agent-skills/internal/installer"
	"github.com/agentx-labs/agent-skills/internal/logger"
	"github.com/agentx-labs/agent-skills/internal/manifest"
)

var (
	installAgents   []string
	installGlobal   bool
	installCopy     bool
	installAll      bool
	installCategory string
)

var installCmd = &cobra.Command{
	Use:   "install [skill...]",
	Short: "Install skills into AI coding agents",
	Long: `Install one or more skills into the skills directory of each selected agent.

By default skills are symlinked from a project-local copy in .agents/skills.
Use --copy to copy them instead and --global to install for the current user.
Without --agent, every agent detected on this machine is targeted.

Installing a skill that is already present is a no-op.`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringSliceVarP(&installAgents, "agent", "a", nil, "Target agents (repeatable or comma-separated)")
	installCmd.Flags().BoolVarP(&installGlobal, "global", "g", false, "Install into the user's home instead of the project")
	installCmd.Flags().BoolVar(&installCopy, "copy", false, "Copy files instead of symlinking")
	installCmd.Flags().BoolVar(&installAll, "all", false, "Install every available skill")
	installCmd.Flags().StringVar(&installCategory, "category", "", "Install every skill in a category")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !installAll && installCategory == "" {
		return fmt.Errorf("specify skills to install, --category or --all")
	}

	e, err := newEngine()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	targets, err := e.resolveTargets(installAgents)
	if err != nil {
		return err
	}

	available, err := e.skills(ctx)
	if err != nil {
		return err
	}
	selected, err := selectSkills(available, args, installAll, installCategory)
	if err != nil {
		return err
	}

	ready, err := e.materialize(ctx, selected)
	if err != nil {
		logger.Warnf("Some skills could not be downloaded: %v", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	if len(ready) == 0 {
		return fmt.Errorf("no skills available to install")
	}

	method := installer.Symlink
	if installCopy {
		method = installer.Copy
	}
	scope := scopeOf(installGlobal)

	results := e.installer(scope).Install(ready, installer.Options{
		Targets: targets,
		Method:  method,
		Scope:   scope,
	})
	printInstallResults(cmd.OutOrStdout(), results)

	if c := countInstall(results); c.failed > 0 {
		return fmt.Errorf("%d of %d installs failed", c.failed, len(results))
	}
	return nil
}

// selectSkills picks the requested skills from available, by name, by
// category or all of them. Unknown names are an error.
func selectSkills(available []manifest.Skill, names []string, all bool, category string) ([]manifest.Skill, error) {
	if all {
		return available, nil
	}

	byName := make(map[string]manifest.Skill, len(available))
	for _, s := range available {
		byName[s.Name] = s
	}

	var selected []manifest.Skill
	seen := make(map[string]bool)
	add := func(s manifest.Skill) {
		if !seen[s.Name] {
			seen[s.Name] = true
			selected = append(selected, s)
		}
	}

	if category != "" {
		for _, s := range available {
			if s.Category == category {
				add(s)
			}
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("no skills in category %q", category)
		}
	}

	var unknown []string
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		add(s)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown %s: %s", plural(len(unknown), "skill", "skills"), strings.Join(unknown, ", "))
	}
	return selected, nil
}
