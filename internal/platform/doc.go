// Package platform provides the filesystem primitives the installer builds
// on: relative symlink creation that reuses an identical existing link,
// recursive directory copy and permission changes. On Windows, Chmod is a
// no-op and symlink failures surface as errors so callers can fall back to
// copying.
package platform
