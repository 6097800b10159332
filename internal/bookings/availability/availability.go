// Package availability decides whether a resource is free for a half-open
// interval [start, end).
package availability

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spacehub/pkg/config"
	"spacehub/pkg/model"
)

type BookingSource interface {
	CountOverlapping(ctx context.Context, tenantID, resourceID string, start, end time.Time, statuses []string) (int64, error)
}

type ScheduleSource interface {
	FindByResourceAndDay(ctx context.Context, tenantID, resourceID string, dayOfWeek int) ([]*model.AvailabilitySchedule, error)
}

type Checker struct {
	bookings         BookingSource
	schedules        ScheduleSource
	enforceOpenHours bool
	loc              *time.Location
}

// NewChecker builds a checker. When enforceOpenHours is set every booking must
// also fit inside one weekly schedule row, evaluated in loc.
func NewChecker(bookings BookingSource, schedules ScheduleSource, enforceOpenHours bool, loc *time.Location) *Checker {
	if loc == nil {
		loc = time.UTC
	}
	return &Checker{
		bookings:         bookings,
		schedules:        schedules,
		enforceOpenHours: enforceOpenHours,
		loc:              loc,
	}
}

func (c *Checker) IsAvailable(ctx context.Context, tenantID, resourceID string, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, nil
	}

	n, err := c.bookings.CountOverlapping(ctx, tenantID, resourceID, start, end, config.BlockingStatuses)
	if err != nil {
		return false, fmt.Errorf("count overlapping bookings: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	if !c.enforceOpenHours {
		return true, nil
	}

	day := model.MondayIndex(start.In(c.loc).Weekday())
	rows, err := c.schedules.FindByResourceAndDay(ctx, tenantID, resourceID, day)
	if err != nil {
		return false, fmt.Errorf("load availability schedule: %w", err)
	}
	return FitsSchedule(rows, start, end, c.loc), nil
}

// Overlaps is the half-open interval test used everywhere a slot is compared.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FitsSchedule reports whether [start, end) lies inside one of rows on the
// local calendar day of start. Bookings crossing local midnight never fit,
// except one that ends exactly at midnight, which matches a row ending "24:00".
func FitsSchedule(rows []*model.AvailabilitySchedule, start, end time.Time, loc *time.Location) bool {
	ls, le := start.In(loc), end.In(loc)

	startSec := secondsOfDay(ls)
	endSec := secondsOfDay(le)

	sy, sm, sd := ls.Date()
	ey, em, ed := le.Date()
	if sy != ey || sm != em || sd != ed {
		nextMidnight := time.Date(sy, sm, sd+1, 0, 0, 0, 0, loc)
		if !le.Equal(nextMidnight) {
			return false
		}
		endSec = 24 * 3600
	}

	for _, row := range rows {
		rowStart, err := ParseClock(row.StartTime)
		if err != nil {
			continue
		}
		rowEnd, err := ParseClock(row.EndTime)
		if err != nil {
			continue
		}
		if rowStart*60 <= startSec && rowEnd*60 >= endSec {
			return true
		}
	}
	return false
}

// ParseClock parses "HH:MM" into minutes after midnight. "24:00" is accepted
// as the end of the day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return h*60 + m, nil
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
