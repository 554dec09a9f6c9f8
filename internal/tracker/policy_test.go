package tracker

import "testing"

func TestClassify(t *testing.T) {
	today := DayKey("2025-05-17")

	cases := []struct {
		target DayKey
		want   DayClass
	}{
		{"2025-05-16", DayPast},
		{"2024-12-31", DayPast},
		{"2025-05-17", DayToday},
		{"2025-05-18", DayFuture},
		{"2026-01-01", DayFuture},
	}
	for _, c := range cases {
		if got := Classify(c.target, today); got != c.want {
			t.Fatalf("Classify(%s, %s): expected %s, got %s", c.target, today, c.want, got)
		}
	}
}

func TestModeFor(t *testing.T) {
	if ModeFor(DayToday) != ModeImmediate {
		t.Fatalf("today should allow immediate recording")
	}
	if ModeFor(DayPast) != ModeExplicit {
		t.Fatalf("past days require explicit time")
	}
	if ModeFor(DayFuture) != ModeForbidden {
		t.Fatalf("future days are forbidden")
	}
}
