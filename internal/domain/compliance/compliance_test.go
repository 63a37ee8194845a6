package compliance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/carehome/carehome/internal/domain/coverage"
	"github.com/carehome/carehome/internal/domain/roster"
	"github.com/carehome/carehome/pkg/weektime"
)

type slot struct {
	day   weektime.Day
	shape string
}

type fakeRoster struct {
	rules   roster.Rules
	covered map[slot]bool
	hours   []roster.NurseDayHours
}

func (f *fakeRoster) Rules() roster.Rules { return f.rules }

func (f *fakeRoster) DayCovered(_ context.Context, day weektime.Day, shape roster.Shape) (bool, error) {
	return f.covered[slot{day, shape.Name}], nil
}

func (f *fakeRoster) HoursByNurseDay(_ context.Context) ([]roster.NurseDayHours, error) {
	return f.hours, nil
}

type fakeCoverage struct {
	rules   coverage.Rules
	minutes map[weektime.Day]int
}

func (f *fakeCoverage) Rules() coverage.Rules { return f.rules }

func (f *fakeCoverage) MinutesOn(_ context.Context, day weektime.Day) (int, error) {
	return f.minutes[day], nil
}

type captureTrail struct {
	staffIDs []string
	actions  []string
}

func (t *captureTrail) Record(_ context.Context, staffID, action, _ string) {
	t.staffIDs = append(t.staffIDs, staffID)
	t.actions = append(t.actions, action)
}

// compliantWeek builds a state that passes all three checks.
func compliantWeek() (*fakeRoster, *fakeCoverage) {
	r := &fakeRoster{
		rules:   roster.DefaultRules(),
		covered: make(map[slot]bool),
	}
	c := &fakeCoverage{
		rules:   coverage.DefaultRules(),
		minutes: make(map[weektime.Day]int),
	}
	for _, day := range weektime.Days() {
		r.covered[slot{day, "A"}] = true
		r.covered[slot{day, "B"}] = true
		c.minutes[day] = 60
		r.hours = append(r.hours,
			roster.NurseDayHours{NurseID: "n1", Day: day, Hours: 8},
			roster.NurseDayHours{NurseID: "n2", Day: day, Hours: 8},
		)
	}
	return r, c
}

func TestCheck_CompliantWeek(t *testing.T) {
	r, c := compliantWeek()
	trail := &captureTrail{}
	checker := NewChecker(r, c, trail)

	if err := checker.Check(context.Background()); err != nil {
		t.Fatalf("expected compliant week, got %v", err)
	}
	if len(trail.actions) != 1 || trail.actions[0] != "compliance check" {
		t.Fatalf("expected one compliance audit entry, got %v", trail.actions)
	}
	if trail.staffIDs[0] != "system" {
		t.Errorf("audit actor = %q, want system", trail.staffIDs[0])
	}
}

func TestCheck_MissingShiftSlot(t *testing.T) {
	r, c := compliantWeek()
	r.covered[slot{weektime.Wednesday, "B"}] = false
	checker := NewChecker(r, c, &captureTrail{})

	err := checker.Check(context.Background())
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected Violation, got %v", err)
	}
	if v.Day != weektime.Wednesday {
		t.Errorf("violation day = %s, want wednesday", v.Day)
	}
	if !strings.Contains(v.Detail, "[shift B]") {
		t.Errorf("detail %q should name shift B", v.Detail)
	}
}

func TestCheck_CoverageCheckedBeforeDoctorMinutes(t *testing.T) {
	r, c := compliantWeek()
	r.covered[slot{weektime.Friday, "A"}] = false
	c.minutes[weektime.Monday] = 0
	checker := NewChecker(r, c, &captureTrail{})

	err := checker.Check(context.Background())
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected Violation, got %v", err)
	}
	// Pass 1 runs before pass 3, so the shift gap wins over the minute gap.
	if v.Day != weektime.Friday || !strings.Contains(v.Detail, "coverage missing") {
		t.Errorf("expected Friday shift violation first, got %v", v)
	}
}

func TestCheck_NurseOverCap(t *testing.T) {
	r, c := compliantWeek()
	r.hours = append(r.hours, roster.NurseDayHours{NurseID: "n3", Day: weektime.Tuesday, Hours: 10})
	checker := NewChecker(r, c, &captureTrail{})

	err := checker.Check(context.Background())
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected Violation, got %v", err)
	}
	if v.Day != weektime.Tuesday || !strings.Contains(v.Detail, "n3") {
		t.Errorf("expected nurse n3 Tuesday violation, got %v", v)
	}
}

func TestCheck_SingleDayWithoutDoctorMinutes(t *testing.T) {
	r, c := compliantWeek()
	c.minutes[weektime.Saturday] = 0
	trail := &captureTrail{}
	checker := NewChecker(r, c, trail)

	err := checker.Check(context.Background())
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected Violation, got %v", err)
	}
	if v.Day != weektime.Saturday {
		t.Errorf("violation day = %s, want saturday", v.Day)
	}
	if len(trail.actions) != 0 {
		t.Error("failed check must not write a success audit entry")
	}
}

func TestCheck_EmptyWeekFailsOnMonday(t *testing.T) {
	checker := NewChecker(
		&fakeRoster{rules: roster.DefaultRules(), covered: map[slot]bool{}},
		&fakeCoverage{rules: coverage.DefaultRules(), minutes: map[weektime.Day]int{}},
		&captureTrail{},
	)

	err := checker.Check(context.Background())
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected Violation, got %v", err)
	}
	if v.Day != weektime.Monday {
		t.Errorf("first violation day = %s, want monday", v.Day)
	}
	if !strings.Contains(v.Detail, "[shift A]") || !strings.Contains(v.Detail, "[shift B]") {
		t.Errorf("detail %q should name both missing slots", v.Detail)
	}
}
