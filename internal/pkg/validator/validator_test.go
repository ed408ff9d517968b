package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", "", "2023/01/01"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"09:00", "23:59", "00:00"}
	invalid := []string{"24:00", "9", "09:60", "", "nine"}
	for _, c := range valid {
		if _, ok := IsValidClock(c); !ok {
			t.Errorf("IsValidClock(%q) = false, want true", c)
		}
	}
	for _, c := range invalid {
		if _, ok := IsValidClock(c); ok {
			t.Errorf("IsValidClock(%q) = true, want false", c)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"present", "absent", "half_day"}
	if !IsInSlice("absent", slice) {
		t.Error("IsInSlice should find absent")
	}
	if IsInSlice("late", slice) {
		t.Error("IsInSlice should not find late")
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00+05:30", "2024-01-15T10:30:00.123Z"}
	invalid := []string{"2024-01-15 10:30:00", "2024-01-15", ""}
	for _, v := range valid {
		if _, ok := IsValidDateTime(v); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", v)
		}
	}
	for _, v := range invalid {
		if _, ok := IsValidDateTime(v); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", v)
		}
	}
}

func TestDateRange(t *testing.T) {
	var errs ValidationErrors
	start, end := DateRange(&errs, "start_date", "2024-01-01", "end_date", "2024-01-31")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if start.Day() != 1 || end.Day() != 31 {
		t.Errorf("DateRange parsed %v..%v", start, end)
	}

	errs = nil
	DateRange(&errs, "start_date", "2024-02-01", "end_date", "2024-01-31")
	if len(errs) != 1 || errs[0].Field != "end_date" {
		t.Errorf("expected end_date ordering error, got %v", errs)
	}

	errs = nil
	DateRange(&errs, "start_date", "bad", "end_date", "worse")
	if len(errs) != 2 {
		t.Errorf("expected two format errors, got %v", errs)
	}
	if m := errs.ToMap(); m["start_date"] == "" || m["end_date"] == "" {
		t.Errorf("ToMap missing fields: %v", m)
	}
}
