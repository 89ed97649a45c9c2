package containers

import (
	"errors"
	"testing"
)

func TestRingQueueWrapsAround(t *testing.T) {
	rq := NewRingQueue[int](3)
	for i := 0; i < 3; i++ {
		if err := rq.Enqueue(i); err != nil {
			t.Fatalf("Enqueue(%d) error = %v", i, err)
		}
	}
	if err := rq.Enqueue(99); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Enqueue on full queue error = %v, want ErrQueueFull", err)
	}

	v, err := rq.Dequeue()
	if err != nil || v != 0 {
		t.Fatalf("Dequeue() = %d, %v; want 0, nil", v, err)
	}
	if err := rq.Enqueue(3); err != nil {
		t.Fatalf("Enqueue after dequeue error = %v", err)
	}

	want := []int{1, 2, 3}
	for _, w := range want {
		got, err := rq.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue() error = %v", err)
		}
		if got != w {
			t.Errorf("Dequeue() = %d, want %d", got, w)
		}
	}
	if !rq.IsEmpty() {
		t.Errorf("queue should be empty, Len() = %d", rq.Len())
	}
	if _, err := rq.Peek(); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("Peek on empty queue error = %v, want ErrQueueEmpty", err)
	}
}
