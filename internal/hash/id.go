// Package hash provides the xxHash64 helper used to key texture and
// attribute map name registries for O(1) duplicate-name lookups.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
