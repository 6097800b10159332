// Package recurrence expands a recurring booking pattern into the start/end
// times of the follow-up occurrences.
package recurrence

import (
	"fmt"
	"time"

	"spacehub/pkg/config"
	"spacehub/pkg/model"
)

const monthlyFixedDays = 30

type Occurrence struct {
	Index int
	Start time.Time
	End   time.Time
}

// Expander turns a pattern into occurrences. MonthlyMode is config.MonthlyFixed30Days
// (the default, i*30 days) or config.MonthlyCalendar (AddDate(0, i, 0)).
type Expander struct {
	MonthlyMode string
}

func NewExpander(monthlyMode string) *Expander {
	if monthlyMode == "" {
		monthlyMode = config.MonthlyFixed30Days
	}
	return &Expander{MonthlyMode: monthlyMode}
}

// Expand returns occurrences 1..pattern.Occurrences. The original booking
// (index 0) is not included. Each occurrence keeps the original duration.
func (e *Expander) Expand(start, end time.Time, pattern *model.RecurringPattern) ([]Occurrence, error) {
	if pattern == nil || pattern.Occurrences <= 0 {
		return nil, nil
	}

	duration := end.Sub(start)
	out := make([]Occurrence, 0, pattern.Occurrences)
	for i := 1; i <= pattern.Occurrences; i++ {
		s, err := e.shift(start, pattern.Type, i)
		if err != nil {
			return nil, err
		}
		out = append(out, Occurrence{Index: i, Start: s, End: s.Add(duration)})
	}
	return out, nil
}

func (e *Expander) shift(t time.Time, recurrence config.RecurrenceType, i int) (time.Time, error) {
	switch recurrence {
	case config.RecurDaily:
		return t.AddDate(0, 0, i), nil
	case config.RecurWeekly:
		return t.AddDate(0, 0, 7*i), nil
	case config.RecurMonthly:
		if e.MonthlyMode == config.MonthlyCalendar {
			return t.AddDate(0, i, 0), nil
		}
		return t.AddDate(0, 0, monthlyFixedDays*i), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported recurrence type %q", recurrence)
	}
}
