package events

import (
	"math/rand"
	"testing"
)

func names(evs []*FrameEvent) []string {
	out := make([]string, len(evs))
	for i, e := range evs {
		out[i] = e.Name
	}
	return out
}

func TestStoreAddKeepsSortOrder(t *testing.T) {
	cases := []struct {
		name  string
		times []float64
		want  []string
	}{
		{"ascending", []float64{0.1, 0.2, 0.3}, []string{"e0", "e1", "e2"}},
		{"descending", []float64{0.3, 0.2, 0.1}, []string{"e2", "e1", "e0"}},
		{"ties_keep_insertion_order", []float64{0.5, 0.2, 0.5, 0.2}, []string{"e1", "e3", "e0", "e2"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewStore()
			for i, tm := range c.times {
				s.Add("e"+string(rune('0'+i)), tm, nil)
			}
			got := names(s.Events())
			for i := range c.want {
				if got[i] != c.want[i] {
					t.Fatalf("order = %v, want %v", got, c.want)
				}
			}
		})
	}
}

func TestStoreSortInvariantUnderRandomEdits(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	s := NewStore()
	for i := 0; i < 200; i++ {
		switch r.Intn(3) {
		case 0, 1:
			s.Add("e", r.Float64()*3, nil)
		case 2:
			if s.Len() > 0 {
				s.SetTime(r.Intn(s.Len()), r.Float64()*3)
			}
		}
		if !Sorted(s.Events()) {
			t.Fatalf("collection not sorted after step %d", i)
		}
	}
}

func TestStoreAddClampsNegativeTime(t *testing.T) {
	s := NewStore()
	ev := s.Add("neg", -1, nil)
	if ev.Time != 0 {
		t.Fatalf("expected time clamped to 0, got %v", ev.Time)
	}
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	a := s.Add("a", 0.1, nil)
	b := s.Add("b", 0.2, nil)

	if s.Remove(5) || s.Remove(-1) {
		t.Fatalf("out of range remove should be a no-op")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", s.Len())
	}

	s.SelectEvent(b)
	if !s.Remove(0) {
		t.Fatalf("remove(0) should succeed")
	}
	if s.Selected() != b {
		t.Fatalf("removing another event must keep the selection")
	}
	if s.IndexOf(a) != -1 {
		t.Fatalf("a should be gone")
	}
	if !s.Remove(0) {
		t.Fatalf("remove(0) should succeed")
	}
	if s.Selected() != nil {
		t.Fatalf("removing the selected event must clear the selection")
	}
}

func TestStoreSelectionSurvivesResort(t *testing.T) {
	s := NewStore()
	s.Add("a", 0.1, nil)
	b := s.Add("b", 0.2, nil)
	s.Add("c", 0.3, nil)
	s.Select(1)
	if s.Selected() != b {
		t.Fatalf("expected b selected")
	}
	idx := s.SetTime(1, 1.0)
	if idx != 2 {
		t.Fatalf("expected b to move to index 2, got %d", idx)
	}
	if s.Selected() != b || s.SelectedIndex() != 2 {
		t.Fatalf("selection should follow the moved event")
	}
}

func TestStoreFindNear(t *testing.T) {
	s := NewStore()
	s.Add("a", 0.5, nil)
	s.Add("b", 1.0, nil)

	tests := []struct {
		name string
		t    float64
		tol  float64
		want int
	}{
		{"exact", 1.0, 0, 1},
		{"within", 0.53, 0.05, 0},
		{"first_match_wins", 0.75, 0.25, 0},
		{"miss", 2.0, 0.1, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.FindNear(tc.t, tc.tol); got != tc.want {
				t.Fatalf("FindNear(%v,%v) = %d, want %d", tc.t, tc.tol, got, tc.want)
			}
		})
	}
}

func TestStoreSetTypeReplacesPayload(t *testing.T) {
	s := NewStore()
	s.Add("hit", 0.2, nil)
	if !s.SetType(0, TypeAttack) {
		t.Fatalf("SetType failed")
	}
	ev := s.At(0)
	if ev.Type() != TypeAttack || ev.Attack() == nil {
		t.Fatalf("expected attack payload, got %T", ev.Payload)
	}
	if ev.Normal() != nil {
		t.Fatalf("normal payload must be gone after retyping")
	}
	ev.Attack().Damage = 42
	s.SetType(0, TypeAttack)
	if ev.Attack().Damage != 42 {
		t.Fatalf("retyping to the same type must keep the payload")
	}
	if s.SetType(3, TypeSound) {
		t.Fatalf("SetType out of range should fail")
	}
}

func TestFrameDerivation(t *testing.T) {
	tests := []struct {
		time float64
		want int
	}{
		{0, 0},
		{0.5, 15},
		{0.7, 21},
		{1.0, 30},
	}
	for _, tc := range tests {
		if got := NewFrameEvent("x", tc.time, nil).Frame(); got != tc.want {
			t.Errorf("Frame(%v) = %d, want %d", tc.time, got, tc.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	ev := NewFrameEvent("a", 1, DefaultPayload(TypeAttack))
	c := ev.Clone()
	c.Attack().Shape.Width = 999
	if ev.Attack().Shape.Width == 999 {
		t.Fatalf("clone shares payload with original")
	}
}
