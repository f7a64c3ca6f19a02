// Package agents describes the AI coding agents skills can be installed
// into: where each agent reads skills from, per project and per user, and
// how to tell whether the agent is present on this machine.
package agents
