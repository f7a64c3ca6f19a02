// Package pathsafe normalizes untrusted skill and category identifiers into
// single filesystem segments and checks that computed destinations stay under
// their base directory. Every write, delete and symlink performed by the
// cache, registry and installer packages goes through IsPathSafe or Join.
package pathsafe
