package simulation

import "testing"

func TestArrivalIndex_ReleaseDueOnly(t *testing.T) {
	idx := newArrivalIndex()
	idx.enqueue("A", PendingArrival{Day: 5, Quantity: 10})
	idx.enqueue("A", PendingArrival{Day: 3, Quantity: 20})
	idx.enqueue("A", PendingArrival{Day: 9, Quantity: 30})

	due := idx.release("A", 4)
	if len(due) != 1 || due[0].Quantity != 20 {
		t.Fatalf("Expected only the day 3 arrival, got %v", due)
	}

	pending := idx.pending("A")
	if len(pending) != 2 || pending[0].Day != 5 || pending[1].Day != 9 {
		t.Errorf("Expected FIFO remainder [5 9], got %v", pending)
	}

	if got := idx.within("A", 4, 8); got != 10 {
		t.Errorf("Expected 10 incoming in [4, 8], got %d", got)
	}
	if got := idx.within("A", 5, 9); got != 40 {
		t.Errorf("Expected 40 incoming in [5, 9], got %d", got)
	}

	due = idx.release("A", 9)
	if len(due) != 2 || due[0].Day != 5 || due[1].Day != 9 {
		t.Errorf("Expected both remaining arrivals in queue order, got %v", due)
	}
	if len(idx.pending("A")) != 0 {
		t.Error("Expected empty queue")
	}
	if idx.release("missing", 100) != nil {
		t.Error("Expected nil release for unknown sku")
	}
}
