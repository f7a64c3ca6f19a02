// Package registry fetches the skills registry document and skill bundle
// files from the CDN.
//
// Requests go to an ordered list of endpoints (primary CDN first, then a
// mirror). Each request is retried on timeouts and transient status codes
// according to a RetryPolicy before the next endpoint is tried. Fetched
// documents are validated, written to the cache and served from it until
// they expire; when every endpoint fails a stale cached document is served
// instead.
package registry
