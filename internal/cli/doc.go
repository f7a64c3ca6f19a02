// Package cli implements the agent-skills command tree using cobra. It
// wires the registry client, cache, installer and category resolver into
// install, list, search, remove, categories, cache, config and version
// subcommands.
package cli
