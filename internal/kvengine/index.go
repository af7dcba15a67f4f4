package kvengine

import "github.com/yndnr/kvs/pkg/cmap"

// Location points at the most recent Set record for a key: which
// generation file it lives in, its byte offset, and its byte length.
type Location struct {
	FileID uint64
	Offset int64
	Length int64
}

// index is the in-memory key->Location mapping. It is backed by the
// sharded concurrent map pkg/cmap already provides. Engine's Get, Set,
// Remove and compaction all hold Engine.mu while they use the index,
// so engine-level Gets are serialized with each other and with writers;
// ordering across the whole engine comes from that mutex.
type index struct {
	m *cmap.Map[string, Location]
}

func newIndex() *index {
	return &index{m: cmap.New[string, Location]()}
}

func (i *index) get(key string) (Location, bool) {
	return i.m.Get(key)
}

func (i *index) set(key string, loc Location) {
	i.m.Set(key, loc)
}

func (i *index) delete(key string) {
	i.m.Delete(key)
}

func (i *index) len() int {
	return i.m.Count()
}

// Range visits every key/Location pair in arbitrary order. Compaction
// relies on this to rebuild the index during a rewrite.
func (i *index) Range(fn func(key string, loc Location) bool) {
	i.m.Range(fn)
}
