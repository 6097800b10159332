package testutil

import (
	"os"
	"testing"
	"time"

	"spacehub/pkg/client"
)

const DefaultHealthCheckTimeout = 30 * time.Second

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	IdentityURL  string
	CatalogURL   string
	BookingsURL  string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		IdentityURL:  getEnv("TEST_IDENTITY_URL", "http://localhost:8081"),
		CatalogURL:   getEnv("TEST_CATALOG_URL", "http://localhost:8082"),
		BookingsURL:  getEnv("TEST_BOOKINGS_URL", "http://localhost:8083"),
	}
}

// Clients holds one API client per running service.
type Clients struct {
	Identity *client.HttpClient
	Catalog  *client.HttpClient
	Bookings *client.HttpClient
}

// Setup empties the data collections and waits for every service to report
// healthy.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *Clients) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	clients := &Clients{
		Identity: client.NewHttpClient(e.IdentityURL),
		Catalog:  client.NewHttpClient(e.CatalogURL),
		Bookings: client.NewHttpClient(e.BookingsURL),
	}
	for _, c := range []*client.HttpClient{clients.Identity, clients.Catalog, clients.Bookings} {
		if err := c.WaitForHealthy(DefaultHealthCheckTimeout); err != nil {
			t.Fatalf("%s: %v", c.BaseURL, err)
		}
	}
	return mongo, clients
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
