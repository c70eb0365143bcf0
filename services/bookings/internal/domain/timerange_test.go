package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	valid := map[string][2]int{
		"00:00": {0, 0},
		"09:05": {9, 5},
		"23:59": {23, 59},
	}
	for in, want := range valid {
		h, m, err := ParseTime(in)
		if err != nil || h != want[0] || m != want[1] {
			t.Errorf("ParseTime(%q) = %d, %d, %v", in, h, m, err)
		}
	}

	for _, in := range []string{"", "9:00", "09:0", "24:00", "12:60", "ab:cd", "09-00", "09:00 ", "+9:00", "0900"} {
		if _, _, err := ParseTime(in); !errors.Is(err, ErrInvalidTimeFormat) {
			t.Errorf("ParseTime(%q): expected ErrInvalidTimeFormat, got %v", in, err)
		}
	}
}

func TestCompareTime(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"09:00", "10:00", -1},
		{"10:00", "09:59", 1},
		{"13:30", "13:30", 0},
	}
	for _, tc := range cases {
		got, err := CompareTime(tc.a, tc.b)
		if err != nil || got != tc.want {
			t.Errorf("CompareTime(%s, %s) = %d, %v; want %d", tc.a, tc.b, got, err, tc.want)
		}
	}
	if _, err := CompareTime("09:00", "9"); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Fatalf("expected ErrInvalidTimeFormat, got %v", err)
	}
}

func TestTimeRangeValidate(t *testing.T) {
	if err := (TimeRange{StartTime: "09:00", EndTime: "10:00"}).Validate(); err != nil {
		t.Fatalf("expected valid range, got %v", err)
	}
	for _, r := range []TimeRange{
		{StartTime: "10:00", EndTime: "10:00"},
		{StartTime: "11:00", EndTime: "10:00"},
	} {
		if err := r.Validate(); !errors.Is(err, ErrInvalidTimeRange) {
			t.Errorf("%s: expected ErrInvalidTimeRange, got %v", r.Label(), err)
		}
	}
	if err := (TimeRange{StartTime: "9", EndTime: "10:00"}).Validate(); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Fatalf("expected ErrInvalidTimeFormat, got %v", err)
	}
}

func TestSlotLabelRoundTrip(t *testing.T) {
	r := TimeRange{StartTime: "13:00", EndTime: "14:30"}
	label := FormatSlotLabel(r)
	if label != "13:00-14:30" {
		t.Fatalf("expected 13:00-14:30, got %s", label)
	}
	back, err := ParseSlotLabel(label)
	if err != nil || back != r {
		t.Fatalf("expected %+v, got %+v (%v)", r, back, err)
	}

	if _, err := ParseSlotLabel("13:00"); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Fatalf("expected ErrInvalidTimeFormat, got %v", err)
	}
	if _, err := ParseSlotLabel("14:00-13:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestTimeRangeDuration(t *testing.T) {
	d, err := (TimeRange{StartTime: "09:15", EndTime: "10:45"}).Duration()
	if err != nil || d != 90*time.Minute {
		t.Fatalf("expected 90m, got %v (%v)", d, err)
	}
}
