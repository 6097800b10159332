package model

import "time"

// Resource is a bookable unit in a tenant's catalog. Optional constraints and
// rates are pointers so "unset" stays distinguishable from zero.
type Resource struct {
	ID                    string    `json:"id" bson:"_id"`
	TenantID              string    `json:"tenant_id" bson:"tenant_id"`
	Name                  string    `json:"name" bson:"name" validate:"required,min=1,max=200"`
	Type                  string    `json:"type" bson:"type" validate:"required,min=2,max=50"`
	Description           string    `json:"description,omitempty" bson:"description,omitempty" validate:"max=2000"`
	ParentID              string    `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Capacity              *int      `json:"capacity,omitempty" bson:"capacity,omitempty" validate:"omitempty,min=1,max=100000"`
	Amenities             []string  `json:"amenities" bson:"amenities" validate:"max=100,dive,min=1,max=100"`
	HourlyRate            *float64  `json:"hourly_rate,omitempty" bson:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	DailyRate             *float64  `json:"daily_rate,omitempty" bson:"daily_rate,omitempty" validate:"omitempty,gte=0"`
	MemberDiscount        *float64  `json:"member_discount,omitempty" bson:"member_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	PremiumMemberDiscount *float64  `json:"premium_member_discount,omitempty" bson:"premium_member_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	IsBookable            bool      `json:"is_bookable" bson:"is_bookable"`
	IsActive              bool      `json:"is_active" bson:"is_active"`
	MinBookingDuration    *int      `json:"min_booking_duration,omitempty" bson:"min_booking_duration,omitempty" validate:"omitempty,min=1"`
	MaxBookingDuration    *int      `json:"max_booking_duration,omitempty" bson:"max_booking_duration,omitempty" validate:"omitempty,min=1"`
	AdvanceBookingDays    *int      `json:"advance_booking_days,omitempty" bson:"advance_booking_days,omitempty" validate:"omitempty,min=0,max=3650"`
	CreatedAt             time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" bson:"updated_at"`
}

// Bookable reports whether new bookings may target the resource.
func (r *Resource) Bookable() bool {
	return r != nil && r.IsActive && r.IsBookable
}

type ResourceCreate struct {
	Name                  string   `json:"name" validate:"required,min=1,max=200"`
	Type                  string   `json:"type" validate:"required,min=2,max=50"`
	Description           string   `json:"description,omitempty" validate:"max=2000"`
	ParentID              string   `json:"parent_id,omitempty"`
	Capacity              *int     `json:"capacity,omitempty" validate:"omitempty,min=1,max=100000"`
	Amenities             []string `json:"amenities,omitempty" validate:"max=100,dive,min=1,max=100"`
	HourlyRate            *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	DailyRate             *float64 `json:"daily_rate,omitempty" validate:"omitempty,gte=0"`
	MemberDiscount        *float64 `json:"member_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	PremiumMemberDiscount *float64 `json:"premium_member_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	IsBookable            *bool    `json:"is_bookable,omitempty"`
	MinBookingDuration    *int     `json:"min_booking_duration,omitempty" validate:"omitempty,min=1"`
	MaxBookingDuration    *int     `json:"max_booking_duration,omitempty" validate:"omitempty,min=1"`
	AdvanceBookingDays    *int     `json:"advance_booking_days,omitempty" validate:"omitempty,min=0,max=3650"`
}

type ResourceUpdate struct {
	Name                  string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Type                  string    `json:"type,omitempty" validate:"omitempty,min=2,max=50"`
	Description           *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	ParentID              *string   `json:"parent_id,omitempty"`
	Capacity              *int      `json:"capacity,omitempty" validate:"omitempty,min=1,max=100000"`
	Amenities             *[]string `json:"amenities,omitempty" validate:"omitempty,max=100,dive,min=1,max=100"`
	HourlyRate            *float64  `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	DailyRate             *float64  `json:"daily_rate,omitempty" validate:"omitempty,gte=0"`
	MemberDiscount        *float64  `json:"member_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	PremiumMemberDiscount *float64  `json:"premium_member_discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	IsBookable            *bool     `json:"is_bookable,omitempty"`
	MinBookingDuration    *int      `json:"min_booking_duration,omitempty" validate:"omitempty,min=1"`
	MaxBookingDuration    *int      `json:"max_booking_duration,omitempty" validate:"omitempty,min=1"`
	AdvanceBookingDays    *int      `json:"advance_booking_days,omitempty" validate:"omitempty,min=0,max=3650"`
}

type ResourceFilter struct {
	Type       string
	ParentID   string
	Amenity    string
	IsBookable *bool
	Limit      int
}
