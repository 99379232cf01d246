package ingest

import "sync"

// Item is one staged passport image awaiting a batch scan.
type Item struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Queue holds staged uploads between requests. It is owned by the caller
// (the HTTP layer keeps one per server), passed into ScanBatch explicitly,
// and drained there. A file name may be staged at most once; a repeat Add
// keeps the first entry and reports false.
type Queue struct {
	mu    sync.Mutex
	items []Item
}

func NewQueue() *Queue {
	return &Queue{}
}

// Add stages one file. Reports whether the name was newly added.
func (q *Queue) Add(name, path string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, it := range q.items {
		if it.Name == name {
			return false
		}
	}
	q.items = append(q.items, Item{Name: name, Path: path})
	return true
}

// Items returns a snapshot of the queue in staging order.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear empties the queue. File cleanup is the scanner's job; Clear only
// drops the bookkeeping.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}
