package waitlist

import (
	"sort"
	"time"
)

// RankKey is the persisted tuple queue order is derived from.
type RankKey struct {
	Priority  int
	CreatedAt time.Time
	Seq       int64
}

func (e *Entry) RankKey() RankKey {
	return RankKey{Priority: e.priority, CreatedAt: e.createdAt, Seq: e.seq}
}

// Ahead reports whether a is served before b: higher priority, then earlier
// createdAt, then lower insertion sequence.
func Ahead(a, b RankKey) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.Seq < b.Seq
}

func SortByRank(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Ahead(entries[i].RankKey(), entries[j].RankKey())
	})
}

// Position is 1 + the number of WAITING entries of the same room ranked ahead of target.
func Position(target *Entry, roomEntries []*Entry) int {
	pos := 1
	key := target.RankKey()
	for _, e := range roomEntries {
		if e.id == target.id || e.roomID != target.roomID || e.status != StatusWaiting {
			continue
		}
		if Ahead(e.RankKey(), key) {
			pos++
		}
	}
	return pos
}
