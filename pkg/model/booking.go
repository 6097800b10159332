package model

import "time"

type RecurringPattern struct {
	Type        string `json:"type" bson:"type" validate:"required,oneof=daily weekly monthly"`
	Occurrences int    `json:"occurrences" bson:"occurrences" validate:"required,min=1"`
}

// Booking occupies [StartTime, EndTime) on a resource. Bookings are never
// deleted, only moved between statuses.
type Booking struct {
	ID               string            `json:"id" bson:"_id"`
	TenantID         string            `json:"tenant_id" bson:"tenant_id"`
	UserID           string            `json:"user_id" bson:"user_id"`
	ResourceID       string            `json:"resource_id" bson:"resource_id"`
	StartTime        time.Time         `json:"start_time" bson:"start_time"`
	EndTime          time.Time         `json:"end_time" bson:"end_time"`
	Status           string            `json:"status" bson:"status"`
	Attendees        int               `json:"attendees" bson:"attendees"`
	Notes            string            `json:"notes,omitempty" bson:"notes,omitempty"`
	TotalCost        *float64          `json:"total_cost,omitempty" bson:"total_cost,omitempty"`
	IsRecurring      bool              `json:"is_recurring" bson:"is_recurring"`
	RecurringPattern *RecurringPattern `json:"recurring_pattern,omitempty" bson:"recurring_pattern,omitempty"`
	ParentBookingID  string            `json:"parent_booking_id,omitempty" bson:"parent_booking_id,omitempty"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" bson:"updated_at"`
}

type BookingRequest struct {
	ResourceID       string            `json:"resource_id" validate:"required,max=64"`
	StartTime        time.Time         `json:"start_time" validate:"required"`
	EndTime          time.Time         `json:"end_time" validate:"required,gtfield=StartTime"`
	Attendees        int               `json:"attendees" validate:"min=1,max=10000"`
	Notes            string            `json:"notes,omitempty" validate:"max=2000"`
	IsRecurring      bool              `json:"is_recurring"`
	RecurringPattern *RecurringPattern `json:"recurring_pattern,omitempty" validate:"omitempty"`
}

// SeriesSummary reports how a recurring request expanded. Occurrences that
// collided with existing bookings are listed in SkippedStarts.
type SeriesSummary struct {
	Requested     int         `json:"requested"`
	Created       int         `json:"created"`
	Skipped       int         `json:"skipped"`
	BookingIDs    []string    `json:"booking_ids"`
	SkippedStarts []time.Time `json:"skipped_starts,omitempty"`
}

type BookingResult struct {
	*Booking
	Series *SeriesSummary `json:"series,omitempty"`
}

type BookingFilter struct {
	ResourceID string
	UserID     string
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=confirmed pending cancelled"`
	Notes  string `json:"notes,omitempty" validate:"max=2000"`
}

type BookedSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
}

type DailyAvailability struct {
	Date       string       `json:"date"`
	ResourceID string       `json:"resource_id"`
	Bookings   []BookedSlot `json:"bookings"`
}

// DashboardStats is the front-desk summary of one tenant. Today is the
// current UTC day.
type DashboardStats struct {
	TotalMembers   int64      `json:"total_members"`
	TotalResources int64      `json:"total_resources"`
	TodayBookings  int64      `json:"today_bookings"`
	RecentBookings []*Booking `json:"recent_bookings"`
}

type Utilization struct {
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	ConfirmedBookings int64     `json:"confirmed_bookings"`
	ActiveResources   int64     `json:"active_resources"`
}
