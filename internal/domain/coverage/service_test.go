package coverage

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/carehome/carehome/pkg/weektime"
)

type mockRepo struct {
	minutes map[string]map[weektime.Day]int
}

func newMockRepo() *mockRepo {
	return &mockRepo{minutes: make(map[string]map[weektime.Day]int)}
}

func (m *mockRepo) Upsert(_ context.Context, doctorID string, day weektime.Day, minutes int) error {
	if m.minutes[doctorID] == nil {
		m.minutes[doctorID] = make(map[weektime.Day]int)
	}
	m.minutes[doctorID][day] = minutes
	return nil
}

func (m *mockRepo) MinutesOn(_ context.Context, day weektime.Day) (int, error) {
	total := 0
	for _, byDay := range m.minutes {
		total += byDay[day]
	}
	return total, nil
}

func (m *mockRepo) AllByDay(_ context.Context) (map[weektime.Day]int, error) {
	result := make(map[weektime.Day]int)
	for _, byDay := range m.minutes {
		for day, minutes := range byDay {
			result[day] += minutes
		}
	}
	return result, nil
}

func (m *mockRepo) List(_ context.Context) ([]*DoctorMinutes, error) {
	var result []*DoctorMinutes
	for doctorID, byDay := range m.minutes {
		for day, minutes := range byDay {
			result = append(result, &DoctorMinutes{DoctorID: doctorID, Day: day, Minutes: minutes})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DoctorID != result[j].DoctorID {
			return result[i].DoctorID < result[j].DoctorID
		}
		return result[i].Day < result[j].Day
	})
	return result, nil
}

type nopTrail struct{}

func (nopTrail) Record(context.Context, string, string, string) {}

func TestUpsert_ReplacesNotAccumulates(t *testing.T) {
	svc := NewService(DefaultRules(), newMockRepo(), nopTrail{})
	ctx := context.Background()

	if err := svc.Upsert(ctx, "d1", weektime.Monday, 45); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := svc.Upsert(ctx, "d1", weektime.Monday, 30); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	minutes, err := svc.MinutesOn(ctx, weektime.Monday)
	if err != nil {
		t.Fatalf("MinutesOn: %v", err)
	}
	if minutes != 30 {
		t.Errorf("minutes = %d, want 30 (replace, not accumulate)", minutes)
	}
}

func TestMinutesOn_SumsDoctors(t *testing.T) {
	svc := NewService(DefaultRules(), newMockRepo(), nopTrail{})
	ctx := context.Background()

	svc.Upsert(ctx, "d1", weektime.Monday, 30)
	svc.Upsert(ctx, "d2", weektime.Monday, 40)

	minutes, _ := svc.MinutesOn(ctx, weektime.Monday)
	if minutes != 70 {
		t.Errorf("minutes = %d, want 70", minutes)
	}
}

func TestUpsert_NegativeMinutes(t *testing.T) {
	svc := NewService(DefaultRules(), newMockRepo(), nopTrail{})
	err := svc.Upsert(context.Background(), "d1", weektime.Monday, -1)
	if !errors.Is(err, ErrNegativeMinutes) {
		t.Fatalf("expected ErrNegativeMinutes, got %v", err)
	}
}

func TestSufficientlyRostered(t *testing.T) {
	svc := NewService(DefaultRules(), newMockRepo(), nopTrail{})
	ctx := context.Background()

	svc.Upsert(ctx, "d1", weektime.Monday, 59)
	ok, err := svc.SufficientlyRostered(ctx, weektime.Monday)
	if err != nil {
		t.Fatalf("SufficientlyRostered: %v", err)
	}
	if ok {
		t.Error("59 minutes must not satisfy the threshold")
	}

	svc.Upsert(ctx, "d2", weektime.Monday, 1)
	ok, _ = svc.SufficientlyRostered(ctx, weektime.Monday)
	if !ok {
		t.Error("60 summed minutes must satisfy the threshold")
	}

	ok, _ = svc.SufficientlyRostered(ctx, weektime.Tuesday)
	if ok {
		t.Error("day with no minutes must not satisfy the threshold")
	}
}
