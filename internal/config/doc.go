// Package config manages user-level settings stored at
// ~/.agent-skills/config.yaml. Every key can be overridden by an
// AGENT_SKILLS_<KEY> environment variable; cdn_ref also honors
// SKILLS_CDN_REF.
package config
