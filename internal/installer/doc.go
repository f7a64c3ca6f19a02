// Package installer places skill bundles into agent skill directories.
//
// A bundle is installed for each (agent, skill) pair either by symlink or by
// copy, into the project or the user's home. Symlink installs in a project
// first copy the bundle to a canonical .agents/skills/<name> directory and
// link the agent directory to it, so the project stays self-contained. When
// a link cannot be created the bundle is copied instead.
//
// Installing onto an existing destination is a no-op reported as
// AlreadyExists. Every destination is validated against its base directory
// before anything is written.
package installer
