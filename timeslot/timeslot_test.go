package timeslot

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:30", 1410, false},
		{"24:00", 0, true},
		{"9h30", 0, true},
		{"", 0, true},
		{"09:61", 0, true},
	}

	for _, c := range cases {
		got, err := ParseClock(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseClock(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormatClockRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "09:30", "13:00", "23:30"} {
		m, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", s, err)
		}
		if got := FormatClock(m); got != s {
			t.Errorf("FormatClock(ParseClock(%q)) = %q", s, got)
		}
	}
}

func TestDuration(t *testing.T) {
	d, err := Duration("09:00", "11:30")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if d != 2*time.Hour+30*time.Minute {
		t.Errorf("Duration(09:00, 11:30) = %v", d)
	}

	// Inverted intervals yield a negative duration, not an error.
	d, err = Duration("11:00", "09:00")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if d != -2*time.Hour {
		t.Errorf("Duration(11:00, 09:00) = %v", d)
	}

	if _, err := Duration("bad", "09:00"); err == nil {
		t.Error("expected error for malformed start")
	}
}

func TestAligned(t *testing.T) {
	aligned := []string{"09:00", "09:30", "00:00"}
	for _, s := range aligned {
		m, _ := ParseClock(s)
		if !Aligned(m) {
			t.Errorf("Aligned(%q) = false, want true", s)
		}
	}

	misaligned := []string{"09:15", "09:01", "23:59"}
	for _, s := range misaligned {
		m, _ := ParseClock(s)
		if Aligned(m) {
			t.Errorf("Aligned(%q) = true, want false", s)
		}
	}
}

func TestOverlaps(t *testing.T) {
	mins := func(s string) int {
		m, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", s, err)
		}
		return m
	}

	cases := []struct {
		s1, e1, s2, e2 string
		want           bool
	}{
		{"09:00", "10:00", "09:30", "10:30", true},  // partial
		{"09:00", "12:00", "10:00", "11:00", true},  // containment
		{"09:00", "10:00", "09:00", "10:00", true},  // identical
		{"09:00", "10:00", "10:00", "11:00", false}, // touching
		{"09:00", "10:00", "11:00", "12:00", false}, // disjoint
	}

	for _, c := range cases {
		got := Overlaps(mins(c.s1), mins(c.e1), mins(c.s2), mins(c.e2))
		if got != c.want {
			t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v", c.s1, c.e1, c.s2, c.e2, got, c.want)
		}

		// Overlap must be symmetric.
		flipped := Overlaps(mins(c.s2), mins(c.e2), mins(c.s1), mins(c.e1))
		if flipped != got {
			t.Errorf("Overlaps is not symmetric for (%s-%s, %s-%s)", c.s1, c.e1, c.s2, c.e2)
		}
	}
}

func TestSlots(t *testing.T) {
	slots := Slots()
	if len(slots) != 48 {
		t.Fatalf("expected 48 slots, got %d", len(slots))
	}
	if slots[0] != "00:00" {
		t.Errorf("first slot = %q, want 00:00", slots[0])
	}
	if slots[47] != "23:30" {
		t.Errorf("last slot = %q, want 23:30", slots[47])
	}
	for i := 1; i < len(slots); i++ {
		if slots[i] <= slots[i-1] {
			t.Errorf("slots out of order at %d: %q <= %q", i, slots[i], slots[i-1])
		}
	}
}
