package ingest

import "testing"

func TestQueueStagesOncePerName(t *testing.T) {
	q := NewQueue()

	if !q.Add("a.jpg", "/tmp/a.jpg") {
		t.Fatal("first Add must report newly added")
	}
	if q.Add("a.jpg", "/tmp/other/a.jpg") {
		t.Fatal("re-adding the same name must report false")
	}
	if !q.Add("b.jpg", "/tmp/b.jpg") {
		t.Fatal("distinct name must be added")
	}

	items := q.Items()
	if len(items) != 2 || items[0].Name != "a.jpg" || items[1].Name != "b.jpg" {
		t.Fatalf("unexpected items: %v", items)
	}

	// snapshot is detached from the queue
	items[0].Name = "mutated"
	if q.Items()[0].Name != "a.jpg" {
		t.Fatal("Items must return a copy")
	}

	q.Clear()
	if q.Len() != 0 {
		t.Fatalf("Len after Clear = %d", q.Len())
	}
}
