package model

import "time"

// AvailabilitySchedule is one weekly open-hours window for a resource.
// DayOfWeek counts from Monday=0 to Sunday=6.
type AvailabilitySchedule struct {
	ID         string    `json:"id" bson:"_id"`
	TenantID   string    `json:"tenant_id" bson:"tenant_id"`
	ResourceID string    `json:"resource_id" bson:"resource_id"`
	DayOfWeek  int       `json:"day_of_week" bson:"day_of_week"`
	StartTime  string    `json:"start_time" bson:"start_time"`
	EndTime    string    `json:"end_time" bson:"end_time"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

type AvailabilitySlot struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

type AvailabilityRequest struct {
	Slots []AvailabilitySlot `json:"slots" validate:"max=100,dive"`
}

// MondayIndex converts Go's Sunday=0 weekday numbering to Monday=0.
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
