// Package collision detects repeated keys by digest, resolving digest
// collisions with a full key comparison.
package collision

import (
	"bytes"

	"github.com/arloliu/structmeta/internal/hash"
)

type entry struct {
	key []byte
	id  int
}

// Tracker records keys under their xxHash64 digest.
//
// Two keys are repeats only when their bytes are equal; distinct keys that
// share a digest are both tracked and flag HasCollision.
type Tracker struct {
	buckets      map[uint64][]entry
	count        int
	hasCollision bool
}

// NewTracker creates a new tracker.
func NewTracker() *Tracker {
	return &Tracker{
		buckets: make(map[uint64][]entry),
	}
}

// Track records key under id. When an equal key was tracked before, Track
// returns the id it was recorded with and true, and key is not recorded.
//
// The tracker keeps a reference to key; it must not be modified afterwards.
func (t *Tracker) Track(key []byte, id int) (int, bool) {
	return t.track(hash.Bytes(key), key, id)
}

// TrackString is Track for string keys.
func (t *Tracker) TrackString(key string, id int) (int, bool) {
	return t.track(hash.ID(key), []byte(key), id)
}

func (t *Tracker) track(digest uint64, key []byte, id int) (int, bool) {
	bucket := t.buckets[digest]
	for _, e := range bucket {
		if bytes.Equal(e.key, key) {
			return e.id, true
		}
	}

	if len(bucket) > 0 {
		t.hasCollision = true
	}

	t.buckets[digest] = append(bucket, entry{key: key, id: id})
	t.count++

	return id, false
}

// HasCollision returns true if two distinct keys shared a digest.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Count returns the number of distinct keys tracked.
func (t *Tracker) Count() int {
	return t.count
}

// Reset clears all tracked keys and collision state.
func (t *Tracker) Reset() {
	for k := range t.buckets {
		delete(t.buckets, k)
	}
	t.count = 0
	t.hasCollision = false
}
