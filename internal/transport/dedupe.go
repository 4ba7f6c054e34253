package transport

import (
	"sync"

	"voyager.com/golfclient/internal/util"
)

// DefaultDedupeSize is how many recent message ids are remembered.
const DefaultDedupeSize = 10

// Deduper drops messages the server sends twice, which happens when it
// restarts and replays its last few pushes.
type Deduper struct {
	mu   sync.Mutex
	seen *util.Queue
}

func NewDeduper(size int) *Deduper {
	if size <= 0 {
		size = DefaultDedupeSize
	}
	return &Deduper{seen: util.NewQueue(size)}
}

// Seen records id and reports whether it was already recorded. Empty ids are
// never duplicates.
func (d *Deduper) Seen(id string) bool {
	if id == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen.Contains(id) {
		return true
	}
	d.seen.Push(id)
	return false
}
