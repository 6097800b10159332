package industry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"spacehub/pkg/events"
	"spacehub/pkg/kafka"
	"spacehub/pkg/logger"
	"spacehub/pkg/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type TenantSource interface {
	FindByID(ctx context.Context, id string) (*model.Tenant, error)
}

// TenantModule is the resolved industry configuration of one tenant.
type TenantModule struct {
	TenantID       string          `json:"tenant_id"`
	Module         *Module         `json:"module"`
	FeatureToggles map[string]bool `json:"feature_toggles"`
	Features       []string        `json:"features"`
}

func (tm *TenantModule) FeatureEnabled(name string) bool {
	return tm.Module.FeatureEnabled(name, tm.FeatureToggles)
}

// Cache resolves tenants to their module lazily and keeps the result for a
// bounded time. Entries are dropped early on Invalidate. A load that started
// before an Invalidate of the same tenant is returned but not cached.
type Cache struct {
	registry      *Registry
	tenants       TenantSource
	defaultModule string
	entries       *expirable.LRU[string, *TenantModule]
	log           *logger.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

func NewCache(registry *Registry, tenants TenantSource, defaultModule string, size int, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{
		registry:      registry,
		tenants:       tenants,
		defaultModule: defaultModule,
		entries:       expirable.NewLRU[string, *TenantModule](size, nil, ttl),
		log:           log,
		generations:   make(map[string]uint64),
	}
}

func (c *Cache) Get(ctx context.Context, tenantID string) (*TenantModule, error) {
	if tm, ok := c.entries.Get(tenantID); ok {
		return tm, nil
	}

	generation := c.generation(tenantID)
	tenant, err := c.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	}

	tm, err := c.Resolve(tenant)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generations[tenantID] == generation {
		c.entries.Add(tenantID, tm)
	}
	c.mu.Unlock()
	return tm, nil
}

func (c *Cache) generation(tenantID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[tenantID]
}

// Resolve builds the module view of tenant without touching the cache.
// Tenants without a module, or with one no longer in the catalog, get the
// default module.
func (c *Cache) Resolve(tenant *model.Tenant) (*TenantModule, error) {
	key := tenant.IndustryModule
	if key == "" || !c.registry.Has(key) {
		if key != "" {
			c.log.Warn("Tenant references unknown industry module, using default",
				"tenant_id", tenant.ID,
				"industry_module", key,
				"default", c.defaultModule,
			)
		}
		key = c.defaultModule
	}

	module, err := c.registry.Get(key)
	if err != nil {
		return nil, err
	}

	toggles := tenant.FeatureToggles
	if toggles == nil {
		toggles = map[string]bool{}
	}
	return &TenantModule{
		TenantID:       tenant.ID,
		Module:         module,
		FeatureToggles: toggles,
		Features:       module.EffectiveFeatures(toggles),
	}, nil
}

func (c *Cache) Invalidate(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[tenantID]++
	if c.entries.Remove(tenantID) {
		c.log.Debug("Industry cache entry invalidated", "tenant_id", tenantID)
	}
}

func (c *Cache) Len() int {
	return c.entries.Len()
}

func (c *Cache) Close() error {
	c.entries.Purge()
	return nil
}

// InvalidationHandler drops cached entries when another replica reports a
// tenant configuration change. Other event types are ignored.
func (c *Cache) InvalidationHandler() kafka.MessageHandler {
	return func(_ context.Context, msg kafka.Message) error {
		if msg.GetEventType() != events.TenantConfigChanged {
			return nil
		}

		tenantID := msg.GetTenantID()
		if tenantID == "" {
			var evt events.Event
			if err := msg.DecodeValue(&evt); err != nil {
				return kafka.NewPermanentError("undecodable tenant event", err)
			}
			tenantID = evt.TenantID
		}
		if tenantID == "" {
			return kafka.NewPermanentError("tenant event without tenant id", nil)
		}

		c.Invalidate(tenantID)
		return nil
	}
}
