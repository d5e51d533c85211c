package timeparse

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "offsetless treated as UTC",
			input: "2025-03-01T10:00:00",
			want:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "explicit zulu",
			input: "2025-03-01T10:00:00Z",
			want:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "positive offset converted",
			input: "2025-03-01T19:00:00+09:00",
			want:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "negative offset converted",
			input: "2025-03-01T05:00:00-05:00",
			want:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "minute precision",
			input: "2025-03-01T10:00",
			want:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "fractional seconds",
			input: "2025-03-01T10:00:00.250",
			want:  time.Date(2025, 3, 1, 10, 0, 0, 250_000_000, time.UTC),
		},
		{
			name:  "bare date",
			input: "2025-03-01",
			want:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: "  2025-03-01T10:00:00Z  ",
			want:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("Parse(%q) location = %v, want UTC", tt.input, got.Location())
			}
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "tomorrow", "2025-13-40T99:00:00", "10:00:00", "2025/03/01 10:00"} {
		if _, err := Parse(input); !errors.Is(err, ErrInvalidTimestamp) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidTimestamp", input, err)
		}
	}
}

// A naive timestamp and an offset timestamp naming the same instant must
// normalize identically, otherwise the overlap predicate would split on
// representation instead of time.
func TestParseEquivalentRepresentations(t *testing.T) {
	naive, err := Parse("2025-06-15T01:30:00")
	if err != nil {
		t.Fatal(err)
	}
	offset, err := Parse("2025-06-15T10:30:00+09:00")
	if err != nil {
		t.Fatal(err)
	}
	if !naive.Equal(offset) {
		t.Errorf("expected equal instants, got %v and %v", naive, offset)
	}
}

func TestDayRangeUTC(t *testing.T) {
	start, end, err := DayRangeUTC("2025-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}

	// Full timestamps collapse to their UTC day.
	start, end, err = DayRangeUTC("2025-03-01T23:59:59Z")
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("range = [%v, %v)", start, end)
	}

	if _, _, err := DayRangeUTC("not-a-date"); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestFormatEmitsExplicitUTC(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	in := time.Date(2025, 3, 1, 19, 0, 0, 0, loc)

	got := Format(in)
	if got != "2025-03-01T10:00:00Z" {
		t.Errorf("Format = %s", got)
	}
}
