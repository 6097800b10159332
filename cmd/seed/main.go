// Command seed provisions a demo tenant through the public API: the tenant
// and its admin, a few resources with opening hours, one member and some
// bookings.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"spacehub/pkg/client"
	"spacehub/pkg/logger"
	"spacehub/pkg/model"
)

type endpoints struct {
	identity string
	catalog  string
	bookings string
}

func main() {
	log := logger.New(logger.Config{
		Level:   logger.INFO,
		Format:  logger.JSON,
		Service: "seed",
	})

	urls := endpoints{
		identity: envOr("SEED_IDENTITY_URL", "http://localhost:8081"),
		catalog:  envOr("SEED_CATALOG_URL", "http://localhost:8082"),
		bookings: envOr("SEED_BOOKINGS_URL", "http://localhost:8083"),
	}
	subdomain := envOr("SEED_SUBDOMAIN", "demo")
	module := envOr("SEED_INDUSTRY_MODULE", "coworking")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, log, urls, subdomain, module); err != nil {
		log.Fatal("Seeding failed", "error", err)
	}
	log.Info("Seeding completed", "subdomain", subdomain)
}

func run(ctx context.Context, log *logger.Logger, urls endpoints, subdomain, module string) error {
	identity := client.NewHttpClient(urls.identity)
	catalog := client.NewHttpClient(urls.catalog)
	bookings := client.NewHttpClient(urls.bookings)

	for _, c := range []*client.HttpClient{identity, catalog, bookings} {
		if err := c.WaitForHealthy(30 * time.Second); err != nil {
			return fmt.Errorf("%s: %w", c.BaseURL, err)
		}
	}

	var registration struct {
		Tenant model.Tenant        `json:"tenant"`
		Admin  model.TokenResponse `json:"admin"`
	}
	err := expect(identity.POST(ctx, "/api/tenants", model.TenantCreate{
		Name:           "Demo Workspace",
		Subdomain:      subdomain,
		IndustryModule: module,
		AdminEmail:     "admin@" + subdomain + ".example.com",
		AdminPassword:  "change-me-please",
		AdminFirstName: "Demo",
		AdminLastName:  "Admin",
	}))(http.StatusCreated, &registration)
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	log.Info("Tenant created", "tenant_id", registration.Tenant.ID, "industry_module", registration.Tenant.IndustryModule)

	catalog.SetToken(registration.Admin.AccessToken)
	resourceIDs := make([]string, 0, len(demoResources))
	for _, rc := range demoResources {
		var resource model.Resource
		if err := expect(catalog.POST(ctx, "/api/resources", rc))(http.StatusCreated, &resource); err != nil {
			return fmt.Errorf("create resource %q: %w", rc.Name, err)
		}
		var rows []model.AvailabilitySchedule
		if err := expect(catalog.PUT(ctx, "/api/resources/"+resource.ID+"/availability", weekdayHours))(http.StatusOK, &rows); err != nil {
			return fmt.Errorf("set availability for %q: %w", rc.Name, err)
		}
		resourceIDs = append(resourceIDs, resource.ID)
		log.Info("Resource created", "resource_id", resource.ID, "name", resource.Name, "schedule_rows", len(rows))
	}

	var member model.TokenResponse
	err = expect(identity.POST(ctx, "/api/auth/register?tenant_subdomain="+subdomain, model.RegisterRequest{
		Email:          "member@" + subdomain + ".example.com",
		Password:       "member-password",
		FirstName:      "Demo",
		LastName:       "Member",
		MembershipTier: "premium",
	}))(http.StatusCreated, &member)
	if err != nil {
		return fmt.Errorf("register member: %w", err)
	}
	bookings.SetToken(member.AccessToken)

	start := nextWeekday(time.Now().UTC(), time.Monday).Add(9 * time.Hour)
	requests := []model.BookingRequest{
		{ResourceID: resourceIDs[0], StartTime: start, EndTime: start.Add(2 * time.Hour), Attendees: 1},
		{ResourceID: resourceIDs[1], StartTime: start.Add(4 * time.Hour), EndTime: start.Add(5 * time.Hour), Attendees: 6, Notes: "Weekly sync",
			IsRecurring: true, RecurringPattern: &model.RecurringPattern{Type: "weekly", Occurrences: 4}},
	}
	for _, req := range requests {
		var result model.BookingResult
		if err := expect(bookings.POST(ctx, "/api/bookings", req))(http.StatusOK, &result); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		log.Info("Booking created", "booking_id", result.ID, "status", result.Status, "recurring", result.IsRecurring)
	}
	return nil
}

var demoResources = []model.ResourceCreate{
	{Name: "Hot Desk 1", Type: "desk", Capacity: intPtr(1), HourlyRate: floatPtr(8), DailyRate: floatPtr(45),
		Amenities: []string{"wifi", "monitor"}, MemberDiscount: floatPtr(10), PremiumMemberDiscount: floatPtr(20)},
	{Name: "Board Room", Type: "meeting_room", Capacity: intPtr(12), HourlyRate: floatPtr(40),
		Amenities: []string{"wifi", "projector", "whiteboard"}, PremiumMemberDiscount: floatPtr(15)},
	{Name: "Phone Booth", Type: "booth", Capacity: intPtr(1), Amenities: []string{"wifi"}},
}

var weekdayHours = func() model.AvailabilityRequest {
	var req model.AvailabilityRequest
	for day := 0; day < 5; day++ {
		req.Slots = append(req.Slots, model.AvailabilitySlot{DayOfWeek: day, StartTime: "08:00", EndTime: "20:00"})
	}
	return req
}()

// expect checks the status code and unwraps the response envelope into target.
func expect(resp *client.Response, err error) func(status int, target any) error {
	return func(status int, target any) error {
		if err != nil {
			return err
		}
		if resp.StatusCode != status {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
		}
		return resp.DecodeData(target)
	}
}

func nextWeekday(from time.Time, day time.Weekday) time.Time {
	d := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
