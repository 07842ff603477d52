package store

import (
	"sync"
	"testing"
)

func TestMemoryStore_FilterUnseen(t *testing.T) {
	s := NewMemoryStore(10)

	unseen := s.FilterUnseen([]int64{1, 2, 3})
	if len(unseen) != 3 {
		t.Fatalf("len(unseen) = %d, want 3", len(unseen))
	}

	unseen = s.FilterUnseen([]int64{2, 3, 4})
	if len(unseen) != 1 || unseen[0] != 4 {
		t.Errorf("unseen = %v, want [4]", unseen)
	}

	unseen = s.FilterUnseen([]int64{1, 2, 3, 4})
	if len(unseen) != 0 {
		t.Errorf("unseen = %v, want empty", unseen)
	}

	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}

func TestMemoryStore_PreservesOrder(t *testing.T) {
	s := NewMemoryStore(10)

	unseen := s.FilterUnseen([]int64{30, 10, 20})
	want := []int64{30, 10, 20}
	for i, id := range want {
		if unseen[i] != id {
			t.Errorf("unseen[%d] = %d, want %d", i, unseen[i], id)
		}
	}
}

func TestMemoryStore_EvictsOldestFirst(t *testing.T) {
	s := NewMemoryStore(3)

	s.FilterUnseen([]int64{1, 2, 3})
	s.FilterUnseen([]int64{4}) // evicts 1

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	// 1 was evicted, so it counts as unseen again; 2-4 are still tracked
	unseen := s.FilterUnseen([]int64{1, 2, 3, 4})
	if len(unseen) != 1 || unseen[0] != 1 {
		t.Errorf("unseen = %v, want [1]", unseen)
	}
}

func TestMemoryStore_DefaultCapacity(t *testing.T) {
	for _, capacity := range []int{0, -5} {
		s := NewMemoryStore(capacity)
		if s.capacity != DefaultCapacity {
			t.Errorf("NewMemoryStore(%d).capacity = %d, want %d", capacity, s.capacity, DefaultCapacity)
		}
	}
}

// TestMemoryStore_ConcurrentAccess verifies the store under concurrent
// use. Run with: go test -race ./internal/store/...
func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(128)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(base int64) {
			defer wg.Done()
			for i := int64(0); i < 100; i++ {
				s.FilterUnseen([]int64{base*1000 + i, i})
				_ = s.Len()
			}
		}(int64(g))
	}
	wg.Wait()

	if s.Len() > 128 {
		t.Errorf("Len() = %d, want at most the capacity", s.Len())
	}
}
