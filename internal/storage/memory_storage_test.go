package storage

import (
	"sync"
	"testing"
)

func TestMemoryStorage_SetGetDelete(t *testing.T) {
	s := NewMemoryStorage[string, int]()

	s.Set("a", 1)
	if v, ok := s.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d/%v, want 1/true", v, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) found a value")
	}

	if !s.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if s.Delete("a") {
		t.Error("repeated Delete(a) = true, want false")
	}
	if s.Count() != 0 {
		t.Errorf("Count = %d, want 0", s.Count())
	}
}

func TestMemoryStorage_DirtyTracking(t *testing.T) {
	s := NewMemoryStorage[string, int]()

	s.Set("a", 1)
	s.Set("b", 2)

	dirty := s.GetDirty()
	if len(dirty) != 2 || dirty["a"] != 1 || dirty["b"] != 2 {
		t.Fatalf("GetDirty = %v, want both entries", dirty)
	}

	// GetDirty does not clear flags; a flush confirms explicitly
	if again := s.GetDirty(); len(again) != 2 {
		t.Errorf("GetDirty after read = %d entries, want 2", len(again))
	}

	s.ClearDirty([]string{"a"})
	dirty = s.GetDirty()
	if len(dirty) != 1 || dirty["b"] != 2 {
		t.Errorf("GetDirty after partial clear = %v, want only b", dirty)
	}

	// Re-setting marks dirty again
	s.Set("a", 3)
	if dirty = s.GetDirty(); len(dirty) != 2 {
		t.Errorf("GetDirty after re-set = %d entries, want 2", len(dirty))
	}

	// Deleting removes the dirty flag too
	s.Delete("a")
	s.Delete("b")
	if dirty = s.GetDirty(); len(dirty) != 0 {
		t.Errorf("GetDirty after delete = %v, want empty", dirty)
	}
}

func TestMemoryStorage_ForEachEarlyStop(t *testing.T) {
	s := NewMemoryStorage[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3)

	seen := 0
	s.ForEach(func(key string, value int) bool {
		seen++
		return seen < 2
	})
	if seen != 2 {
		t.Errorf("visited %d entries, want early stop at 2", seen)
	}
}

func TestMemoryStorage_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStorage[int, int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Set(i, i)
			s.Get(i)
			s.GetDirty()
			s.ClearDirty([]int{i})
		}(i)
	}
	wg.Wait()

	if s.Count() != 50 {
		t.Errorf("Count = %d, want 50", s.Count())
	}
}
