package cli

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agentx-labs/agent-skills/internal/installer"
)

var printer = message.NewPrinter(language.English)

// installCounts tallies install results.
type installCounts struct {
	installed, existing, fallback, failed int
}

func countInstall(results []installer.Result) installCounts {
	var c installCounts
	for _, r := range results {
		switch {
		case !r.Success:
			c.failed++
		case r.AlreadyExists:
			c.existing++
		default:
			c.installed++
			if r.SymlinkFailed {
				c.fallback++
			}
		}
	}
	return c
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// printInstallResults writes one line per result and a summary line.
func printInstallResults(w io.Writer, results []installer.Result) {
	for _, r := range results {
		switch {
		case !r.Success:
			fmt.Fprintf(w, "  ✗ %s → %s: %s\n", r.Skill, targetLabel(r.Target, r.TargetName), r.Error)
		case r.AlreadyExists:
			fmt.Fprintf(w, "  • %s → %s: already installed\n", r.Skill, targetLabel(r.Target, r.TargetName))
		case r.SymlinkFailed:
			fmt.Fprintf(w, "  ✓ %s → %s (copied, symlink failed)\n", r.Skill, targetLabel(r.Target, r.TargetName))
		default:
			fmt.Fprintf(w, "  ✓ %s → %s (%s)\n", r.Skill, targetLabel(r.Target, r.TargetName), r.Method)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, installSummary(countInstall(results)))
}

func installSummary(c installCounts) string {
	s := printer.Sprintf("Installed %d %s", c.installed, plural(c.installed, "skill", "skills"))
	if c.existing > 0 {
		s += printer.Sprintf(", %d already installed", c.existing)
	}
	if c.fallback > 0 {
		s += printer.Sprintf(", %d copied after symlink failure", c.fallback)
	}
	if c.failed > 0 {
		s += printer.Sprintf(", %d failed", c.failed)
	}
	return s + "."
}

func targetLabel(id, name string) string {
	if name == "" {
		return id
	}
	return name
}
