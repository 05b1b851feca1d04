package protocol

import (
	"sync"
	"testing"
)

func TestSequence_StartsAtZero(t *testing.T) {
	var s Sequence

	if got := s.Next(); got != 0 {
		t.Errorf("expected first sequence 0, got %d", got)
	}
	if got := s.Next(); got != 1 {
		t.Errorf("expected second sequence 1, got %d", got)
	}
}

func TestSequence_Wrap(t *testing.T) {
	var s Sequence

	for i := 0; i < 256; i++ {
		if got := s.Next(); got != uint8(i) {
			t.Fatalf("call %d: expected %d, got %d", i, i, got)
		}
	}

	if got := s.Next(); got != 0 {
		t.Errorf("expected wrap to 0, got %d", got)
	}
	if got := s.Total(); got != 257 {
		t.Errorf("expected total 257, got %d", got)
	}
}

func TestSequence_ConcurrentTotal(t *testing.T) {
	var s Sequence
	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			for range 100 {
				s.Next()
			}
		})
	}
	wg.Wait()

	if got := s.Total(); got != 800 {
		t.Errorf("expected total 800, got %d", got)
	}
}
