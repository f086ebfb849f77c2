package arena

import "testing"

func TestAllocGet(t *testing.T) {
	a := New[string]()
	i1 := a.Alloc("one")
	i2 := a.Alloc("two")
	if !i1.Valid() || !i2.Valid() {
		t.Fatalf("expected valid indices")
	}
	if i1 == i2 {
		t.Fatalf("expected distinct indices")
	}
	if a.Get(i1) != "one" || a.Get(i2) != "two" {
		t.Fatalf("get mismatch")
	}
}

func TestZeroIndexInvalid(t *testing.T) {
	var idx Index[int]
	if idx.Valid() {
		t.Fatalf("zero index must be invalid")
	}
}

func TestOutOfRangePanics(t *testing.T) {
	a := New[int]()
	a.Alloc(1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	a.Get(Index[int](5))
}

func TestAllIterationOrder(t *testing.T) {
	a := New[int]()
	a.Alloc(10)
	a.Alloc(20)
	a.Alloc(30)
	var got []int
	a.All(func(_ Index[int], v int) bool {
		got = append(got, v)
		return true
	})
	if len(got) != 3 || got[0] != 10 || got[2] != 30 {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestAllEarlyStop(t *testing.T) {
	a := New[int]()
	a.Alloc(1)
	a.Alloc(2)
	a.Alloc(3)
	count := 0
	a.All(func(_ Index[int], v int) bool {
		count++
		return v != 2
	})
	if count != 2 {
		t.Fatalf("expected early stop after 2 elements, got %d", count)
	}
}
