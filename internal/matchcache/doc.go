// Package matchcache persists catalog search results in SQLite so repeated
// conversions of the same library skip the remote search API.
//
// Entries are keyed by the exact query string and result limit. Entries older
// than the configured TTL are treated as misses and removed by Prune.
package matchcache
