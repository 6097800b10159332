// Package pricing computes the cost of a booking from a resource's rates and
// the requester's membership tier. It does no I/O.
package pricing

import (
	"math"
	"time"

	"spacehub/pkg/config"
	"spacehub/pkg/model"
)

// DailyRateMinHours is the shortest booking billed at the daily rate when the
// resource has no hourly rate.
const DailyRateMinHours = 8.0

// CalculateCost returns the price of [start, end) on resource for a member of
// tier, rounded to cents. Resources without a usable rate cost 0.
func CalculateCost(resource *model.Resource, start, end time.Time, tier config.MembershipTier) float64 {
	if resource == nil || !end.After(start) {
		return 0
	}

	hours := end.Sub(start).Hours()
	cost := baseCost(resource, hours)
	if cost == 0 {
		return 0
	}

	if pct := discountFor(resource, tier); pct > 0 {
		cost *= 1 - pct/100
	}
	return round2(cost)
}

func baseCost(resource *model.Resource, hours float64) float64 {
	switch {
	case positive(resource.HourlyRate):
		return *resource.HourlyRate * hours
	case positive(resource.DailyRate) && hours >= DailyRateMinHours:
		return *resource.DailyRate * (hours / 24)
	default:
		return 0
	}
}

// discountFor picks exactly one percentage. Premium members get the premium
// discount when the resource defines one, otherwise basic and premium members
// fall back to the member discount.
func discountFor(resource *model.Resource, tier config.MembershipTier) float64 {
	if tier == config.TierPremium && positive(resource.PremiumMemberDiscount) {
		return clampPercent(*resource.PremiumMemberDiscount)
	}
	if (tier == config.TierBasic || tier == config.TierPremium) && positive(resource.MemberDiscount) {
		return clampPercent(*resource.MemberDiscount)
	}
	return 0
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}

func clampPercent(p float64) float64 {
	return math.Min(math.Max(p, 0), 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
