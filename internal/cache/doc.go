// Package cache manages the on-disk cache of the skills registry document
// and of downloaded skill bundles.
//
// Layout under the cache base directory:
//
//	registry.json      cached registry document plus its fetch time
//	skills/<name>/     one directory per downloaded bundle
//
// The cache is single-user. Writes fully overwrite previous content and
// directories are created lazily.
package cache
