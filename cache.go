package pyecs

// matchCache remembers, per query shape, which archetypes matched. Archetype
// signatures are immutable and archetypes are never removed, so a cached
// entry only ever needs extending: the watermark records how many archetypes
// existed when the entry was last brought up to date, and lookups evaluate
// just the archetypes created since. Query shapes without a stable key fall
// back to a full scan.
type matchCache struct {
	entries map[string]*matchEntry
}

type matchEntry struct {
	ids       []archetypeID
	watermark int
}

func newMatchCache() *matchCache {
	return &matchCache{entries: make(map[string]*matchEntry)}
}

func (mc *matchCache) matchesFor(q QueryNode, sto *storage) []archetype {
	all := sto.archetypes.asSlice

	key, cacheable := "", false
	if keyed, ok := q.(cacheKeyed); ok {
		key, cacheable = keyed.cacheKey()
	}
	if !cacheable {
		matched := make([]archetype, 0)
		for _, arch := range all {
			if q.Evaluate(arch, sto) {
				matched = append(matched, arch)
			}
		}
		return matched
	}

	entry, found := mc.entries[key]
	if !found {
		entry = &matchEntry{}
		mc.entries[key] = entry
	}
	for i := entry.watermark; i < len(all); i++ {
		if q.Evaluate(all[i], sto) {
			entry.ids = append(entry.ids, all[i].id)
		}
	}
	entry.watermark = len(all)

	matched := make([]archetype, len(entry.ids))
	for i, id := range entry.ids {
		matched[i] = all[id-1]
	}
	return matched
}

// entryCount reports how many query shapes are cached.
func (mc *matchCache) entryCount() int {
	return len(mc.entries)
}

// watermarkFor returns the cached entry's watermark for a query shape, or
// ok=false when the shape has never been cached.
func (mc *matchCache) watermarkFor(q QueryNode) (int, bool) {
	keyed, ok := q.(cacheKeyed)
	if !ok {
		return 0, false
	}
	key, ok := keyed.cacheKey()
	if !ok {
		return 0, false
	}
	entry, found := mc.entries[key]
	if !found {
		return 0, false
	}
	return entry.watermark, true
}
