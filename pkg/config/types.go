package config

type BookingStatus = string

const (
	Pending   BookingStatus = "pending"
	Confirmed BookingStatus = "confirmed"
	Cancelled BookingStatus = "cancelled"
)

// Statuses that hold a slot on a resource.
var BlockingStatuses = []BookingStatus{Confirmed, Pending}

type MembershipTier = string

const (
	TierNone       MembershipTier = ""
	TierBasic      MembershipTier = "basic"
	TierPremium    MembershipTier = "premium"
	TierEnterprise MembershipTier = "enterprise"
)

type Role = string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleTenantAdmin   Role = "tenant_admin"
	RoleStaff         Role = "staff"
	RoleMember        Role = "member"
)

// ElevatedRoles may manage the catalog and see every booking of their tenant.
var ElevatedRoles = []Role{RolePlatformAdmin, RoleTenantAdmin, RoleStaff}

func IsElevated(role Role) bool {
	for _, r := range ElevatedRoles {
		if r == role {
			return true
		}
	}
	return false
}

type ResourceType = string

const (
	ResourceBuilding  ResourceType = "building"
	ResourceFloor     ResourceType = "floor"
	ResourceRoom      ResourceType = "room"
	ResourceDesk      ResourceType = "desk"
	ResourceEquipment ResourceType = "equipment"
)

type RecurrenceType = string

const (
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
)

const (
	MonthlyFixed30Days = "fixed30"
	MonthlyCalendar    = "calendar"
)
