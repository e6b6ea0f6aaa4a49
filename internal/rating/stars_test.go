package rating

import "testing"

func TestRoundTrip(t *testing.T) {
	// Every stored value must survive stored -> stars -> stored.
	for stored := Min; stored <= Max; stored++ {
		stars := ToStars(stored)
		if got := FromStars(stars); got != stored {
			t.Errorf("FromStars(ToStars(%d)) = %d, want %d", stored, got, stored)
		}
	}

	// Every half-star value must map to an integer in [1,10].
	for i := 1; i <= 10; i++ {
		stars := float64(i) / 2
		stored := FromStars(stars)
		if stored < Min || stored > Max {
			t.Errorf("FromStars(%v) = %d, out of range [%d,%d]", stars, stored, Min, Max)
		}
		if got := ToStars(stored); got != stars {
			t.Errorf("ToStars(FromStars(%v)) = %v, want %v", stars, got, stars)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name   string
		stored int
		want   int
	}{
		{"below range", 0, 1},
		{"negative", -5, 1},
		{"above range", 11, 10},
		{"far above range", 100, 10},
		{"lower bound", 1, 1},
		{"upper bound", 10, 10},
		{"mid range", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.stored); got != tt.want {
				t.Errorf("Clamp(%d) = %d, want %d", tt.stored, got, tt.want)
			}
		})
	}
}

func TestFromStars(t *testing.T) {
	tests := []struct {
		name  string
		stars float64
		want  int
	}{
		{"half star", 0.5, 1},
		{"one star", 1, 2},
		{"two and a half", 2.5, 5},
		{"five stars", 5, 10},
		{"zero coerced up", 0, 1},
		{"over five coerced down", 5.5, 10},
		{"off-grid rounds", 2.7, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromStars(tt.stars); got != tt.want {
				t.Errorf("FromStars(%v) = %d, want %d", tt.stars, got, tt.want)
			}
		})
	}
}
