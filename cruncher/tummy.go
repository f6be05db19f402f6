package cruncher

// TummyEntry is a liked fact retained by a Cruncher.
type TummyEntry struct {
	Number int64  `json:"number"`
	Fact   string `json:"fact"`
}

// tummy is a fixed-capacity FIFO ring. Pushing onto a full ring overwrites
// the oldest entry.
type tummy struct {
	buf   []TummyEntry
	head  int // index of the oldest entry
	count int
}

func newTummy(capacity int) *tummy {
	return &tummy{buf: make([]TummyEntry, capacity)}
}

// push appends e and reports whether an older entry was evicted to make room.
// A zero-capacity ring evicts on every push and never holds anything.
func (t *tummy) push(e TummyEntry) bool {
	capacity := len(t.buf)
	if capacity == 0 {
		return true
	}
	if t.count == capacity {
		t.buf[t.head] = e
		t.head = (t.head + 1) % capacity
		return true
	}
	t.buf[(t.head+t.count)%capacity] = e
	t.count++
	return false
}

func (t *tummy) len() int { return t.count }

// snapshot returns the entries oldest first.
func (t *tummy) snapshot() []TummyEntry {
	out := make([]TummyEntry, 0, t.count)
	for i := 0; i < t.count; i++ {
		out = append(out, t.buf[(t.head+i)%len(t.buf)])
	}
	return out
}
