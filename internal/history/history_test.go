package history

import (
	"fmt"
	"testing"
)

func TestRing_MostRecentFirst(t *testing.T) {
	r := New(10)

	r.Add(Entry{Text: "first"})
	r.Add(Entry{Text: "second"})
	r.Add(Entry{Text: "third"})

	entries := r.Entries()
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	for i, want := range []string{"third", "second", "first"} {
		if entries[i].Text != want {
			t.Errorf("entries[%d].Text = %q, want %q", i, entries[i].Text, want)
		}
	}
}

func TestRing_CapacityDropsOldest(t *testing.T) {
	r := New(50)

	for i := 0; i < 55; i++ {
		r.Add(Entry{Text: fmt.Sprintf("t%d", i)})
	}

	if r.Len() != 50 {
		t.Fatalf("Len = %d, want 50", r.Len())
	}
	entries := r.Entries()
	if entries[0].Text != "t54" {
		t.Errorf("newest = %q, want t54", entries[0].Text)
	}
	if entries[len(entries)-1].Text != "t5" {
		t.Errorf("oldest = %q, want t5", entries[len(entries)-1].Text)
	}
}

func TestRing_EntriesReturnsCopy(t *testing.T) {
	r := New(10)
	r.Add(Entry{Text: "original"})

	entries := r.Entries()
	entries[0].Text = "mutated"

	if r.Entries()[0].Text != "original" {
		t.Error("Entries must return a copy")
	}
}

func TestRing_Clear(t *testing.T) {
	r := New(10)
	r.Add(Entry{Text: "a"})
	r.Add(Entry{Text: "b"})

	r.Clear()

	if r.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", r.Len())
	}
}

func TestRing_DefaultCapacity(t *testing.T) {
	r := New(0)
	if r.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", r.capacity, DefaultCapacity)
	}
}
