package mesh

import "github.com/wangfeilong321/openctm/internal/hash"

// nameRegistry tracks the names already registered for one map list (either
// all TexMaps or all AttribMaps on a single Mesh) and rejects duplicates.
//
// Names are pre-filtered by xxHash64 bucket before the exact string
// comparison, adapted from the teacher's metric-name collision tracker: that
// tracker tolerates same-hash/different-name collisions because it can fall
// back to storing the colliding names in the blob, but here two different
// names never need to coexist behind one hash bucket resolution, so a
// bucket slice of the (rare) colliding names is enough to tell duplicates
// apart from genuine hash collisions.
type nameRegistry struct {
	buckets map[uint64][]string
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{buckets: make(map[uint64][]string)}
}

// add registers name, returning false if it is already present.
func (r *nameRegistry) add(name string) bool {
	h := hash.ID(name)
	for _, existing := range r.buckets[h] {
		if existing == name {
			return false
		}
	}
	r.buckets[h] = append(r.buckets[h], name)

	return true
}
