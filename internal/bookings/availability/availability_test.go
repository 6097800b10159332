package availability

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"spacehub/pkg/config"
	"spacehub/pkg/model"
)

type memBookings struct {
	bookings []*model.Booking
	err      error
}

func (m *memBookings) CountOverlapping(_ context.Context, tenantID, resourceID string, start, end time.Time, statuses []string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for _, b := range m.bookings {
		if b.TenantID != tenantID || b.ResourceID != resourceID || !contains(statuses, b.Status) {
			continue
		}
		if Overlaps(b.StartTime, b.EndTime, start, end) {
			n++
		}
	}
	return n, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type memSchedules struct {
	rows []*model.AvailabilitySchedule
}

func (m *memSchedules) FindByResourceAndDay(_ context.Context, tenantID, resourceID string, day int) ([]*model.AvailabilitySchedule, error) {
	var out []*model.AvailabilitySchedule
	for _, r := range m.rows {
		if r.TenantID == tenantID && r.ResourceID == resourceID && r.DayOfWeek == day {
			out = append(out, r)
		}
	}
	return out, nil
}

// 2030-01-07 is a Monday.
var base = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time { return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func booking(status string, start, end time.Time) *model.Booking {
	return &model.Booking{TenantID: "t1", ResourceID: "r1", Status: status, StartTime: start, EndTime: end}
}

func TestIsAvailable_Overlap(t *testing.T) {
	src := &memBookings{bookings: []*model.Booking{
		booking(config.Confirmed, at(10, 0), at(11, 0)),
		booking(config.Cancelled, at(12, 0), at(13, 0)),
		booking(config.Pending, at(14, 0), at(15, 0)),
	}}
	c := NewChecker(src, nil, false, nil)

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"before, touching", at(9, 0), at(10, 0), true},
		{"after, touching", at(11, 0), at(12, 0), true},
		{"partial overlap", at(10, 30), at(11, 30), false},
		{"contained", at(10, 15), at(10, 45), false},
		{"containing", at(9, 0), at(12, 0), false},
		{"cancelled does not block", at(12, 0), at(13, 0), true},
		{"pending blocks", at(14, 30), at(16, 0), false},
		{"empty interval", at(9, 0), at(9, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.IsAvailable(context.Background(), "t1", "r1", tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAvailable_TenantAndResourceIsolation(t *testing.T) {
	src := &memBookings{bookings: []*model.Booking{booking(config.Confirmed, at(10, 0), at(11, 0))}}
	c := NewChecker(src, nil, false, nil)

	for _, tc := range []struct{ tenant, resource string }{{"t2", "r1"}, {"t1", "r2"}} {
		ok, err := c.IsAvailable(context.Background(), tc.tenant, tc.resource, at(10, 0), at(11, 0))
		if err != nil || !ok {
			t.Errorf("%s/%s should be free, got %v %v", tc.tenant, tc.resource, ok, err)
		}
	}
}

func TestIsAvailable_PropagatesErrors(t *testing.T) {
	c := NewChecker(&memBookings{err: errors.New("boom")}, nil, false, nil)
	if _, err := c.IsAvailable(context.Background(), "t1", "r1", at(1, 0), at(2, 0)); err == nil {
		t.Fatal("expected error")
	}
}

// Accepting a random stream of requests through the checker must never leave
// two blocking bookings overlapping on one resource.
func TestIsAvailable_NoOverlapProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	src := &memBookings{}
	c := NewChecker(src, nil, false, nil)

	for i := 0; i < 2000; i++ {
		start := base.Add(time.Duration(rng.Intn(7*24*4)) * 15 * time.Minute)
		end := start.Add(time.Duration(1+rng.Intn(16)) * 15 * time.Minute)
		ok, err := c.IsAvailable(context.Background(), "t1", "r1", start, end)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			status := config.Confirmed
			if rng.Intn(3) == 0 {
				status = config.Pending
			}
			src.bookings = append(src.bookings, booking(status, start, end))
		}
	}

	for i, a := range src.bookings {
		for _, b := range src.bookings[i+1:] {
			if Overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime) {
				t.Fatalf("overlap between %v-%v and %v-%v", a.StartTime, a.EndTime, b.StartTime, b.EndTime)
			}
		}
	}
	if len(src.bookings) == 0 {
		t.Fatal("property test accepted nothing")
	}
}

func TestIsAvailable_OpenHours(t *testing.T) {
	schedules := &memSchedules{rows: []*model.AvailabilitySchedule{
		{TenantID: "t1", ResourceID: "r1", DayOfWeek: 0, StartTime: "09:00", EndTime: "17:00"},
		{TenantID: "t1", ResourceID: "r1", DayOfWeek: 1, StartTime: "20:00", EndTime: "24:00"},
	}}
	c := NewChecker(&memBookings{}, schedules, true, time.UTC)

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside monday hours", at(9, 0), at(17, 0), true},
		{"starts too early", at(8, 59), at(10, 0), false},
		{"ends too late", at(16, 0), at(17, 1), false},
		{"tuesday evening until midnight", at(24+20, 0), at(48, 0), true},
		{"crosses midnight", at(24+23, 0), at(48+1, 0), false},
		{"no row on wednesday", at(48+10, 0), at(48+11, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.IsAvailable(context.Background(), "t1", "r1", tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitsSchedule_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	rows := []*model.AvailabilitySchedule{{DayOfWeek: 0, StartTime: "09:00", EndTime: "12:00"}}

	// 07:00-09:00 UTC is 09:00-11:00 local.
	if !FitsSchedule(rows, at(7, 0), at(9, 0), loc) {
		t.Errorf("expected local window to fit")
	}
	if FitsSchedule(rows, at(9, 0), at(11, 0), loc) {
		t.Errorf("11:00-13:00 local should not fit")
	}
}

func TestParseClock(t *testing.T) {
	valid := map[string]int{"00:00": 0, "09:30": 570, "23:59": 1439, "24:00": 1440}
	for in, want := range valid {
		got, err := ParseClock(in)
		if err != nil || got != want {
			t.Errorf("ParseClock(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "9:30", "24:01", "12:60", "ab:cd", "12-30"} {
		if _, err := ParseClock(in); err == nil {
			t.Errorf("ParseClock(%q) should fail", in)
		}
	}
}
