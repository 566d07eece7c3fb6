package analysis

import (
	"testing"
	"time"
)

func TestDailyWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC) // Tuesday afternoon
	start, end, bounded := PeriodDaily.Window(now, time.UTC)
	if !bounded {
		t.Fatalf("daily window must be bounded")
	}
	if want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
	if want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
	if got := PeriodDaily.WindowDate(now, time.UTC); got != "2026-08-31" {
		t.Fatalf("window date = %q, want 2026-08-31", got)
	}
}

func TestWeeklyWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 2, 0, 0, 0, time.UTC) // Tuesday
	start, end, bounded := PeriodWeekly.Window(now, time.UTC)
	if !bounded {
		t.Fatalf("weekly window must be bounded")
	}
	if want := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
	if want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
}

func TestWeeklyWindowOnSunday(t *testing.T) {
	t.Parallel()

	// Sunday still belongs to the week that started the prior Monday, so
	// the covered window is the week before that.
	now := time.Date(2026, 9, 6, 23, 0, 0, 0, time.UTC)
	start, end, _ := PeriodWeekly.Window(now, time.UTC)
	if want := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
	if want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
}

func TestAllWindowUnbounded(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if _, _, bounded := PeriodAll.Window(now, time.UTC); bounded {
		t.Fatalf("all window must be unbounded")
	}
	if got := PeriodAll.WindowDate(now, time.UTC); got != "all" {
		t.Fatalf("window date = %q, want all", got)
	}
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"daily", "weekly", "all"} {
		if _, err := ParsePeriod(raw); err != nil {
			t.Fatalf("ParsePeriod(%q) error: %v", raw, err)
		}
	}
	if _, err := ParsePeriod("monthly"); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestExtractionRuns(t *testing.T) {
	t.Parallel()

	cases := []struct{ rows, want int }{
		{1, 3},
		{2, 6},
		{3, 9},
		{4, 10},
		{5, 10},
		{50, 10},
	}
	for _, c := range cases {
		if got := extractionRuns(c.rows); got != c.want {
			t.Fatalf("extractionRuns(%d) = %d, want %d", c.rows, got, c.want)
		}
	}
}
