// Package industry holds the per-industry presentation catalog: terminology,
// feature defaults, navigation and booking-rule defaults. Modules are plain
// data loaded once from an embedded YAML file.
package industry

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed industries.yaml
var catalogYAML []byte

var ErrUnknownModule = errors.New("unknown industry module")

type Module struct {
	Key              string            `json:"key" yaml:"-"`
	Name             string            `json:"name" yaml:"name"`
	Version          string            `json:"version" yaml:"version"`
	Terminology      map[string]string `json:"terminology" yaml:"terminology"`
	Features         []string          `json:"features" yaml:"features"`
	Navigation       []NavItem         `json:"navigation" yaml:"navigation"`
	DashboardWidgets []string          `json:"dashboard_widgets" yaml:"dashboard_widgets"`
	ResourceTypes    []ResourceType    `json:"resource_types" yaml:"resource_types"`
	BookingRules     BookingRules      `json:"booking_rules" yaml:"booking_rules"`
}

type NavItem struct {
	Name  string   `json:"name" yaml:"name"`
	Path  string   `json:"path" yaml:"path"`
	Icon  string   `json:"icon" yaml:"icon"`
	Roles []string `json:"roles" yaml:"roles"`
}

type ResourceType struct {
	Type               string `json:"type" yaml:"type"`
	DisplayName        string `json:"display_name" yaml:"display_name"`
	PricingType        string `json:"pricing_type" yaml:"pricing_type"`
	Bookable           bool   `json:"bookable" yaml:"bookable"`
	AdvanceBookingDays int    `json:"advance_booking_days" yaml:"advance_booking_days"`
}

// BookingRules are suggested defaults for new resources, not enforced limits.
type BookingRules struct {
	AdvanceBookingDays int  `json:"advance_booking_days" yaml:"advance_booking_days"`
	MinBookingDuration int  `json:"min_booking_duration" yaml:"min_booking_duration"`
	MaxBookingDuration int  `json:"max_booking_duration" yaml:"max_booking_duration"`
	AllowRecurring     bool `json:"allow_recurring" yaml:"allow_recurring"`
	RequireApproval    bool `json:"require_approval" yaml:"require_approval"`
}

// Translate maps a core term to this industry's wording; unknown terms pass
// through unchanged.
func (m *Module) Translate(term string) string {
	if t, ok := m.Terminology[term]; ok {
		return t
	}
	return term
}

func (m *Module) TranslateAll(terms []string) map[string]string {
	out := make(map[string]string, len(terms))
	for _, term := range terms {
		out[term] = m.Translate(term)
	}
	return out
}

// FeatureEnabled lets an explicit tenant toggle override the module default.
func (m *Module) FeatureEnabled(name string, toggles map[string]bool) bool {
	if enabled, ok := toggles[name]; ok {
		return enabled
	}
	for _, f := range m.Features {
		if f == name {
			return true
		}
	}
	return false
}

// EffectiveFeatures is the module default set with tenant toggles applied,
// sorted by name.
func (m *Module) EffectiveFeatures(toggles map[string]bool) []string {
	seen := make(map[string]struct{}, len(m.Features)+len(toggles))
	for _, f := range m.Features {
		seen[f] = struct{}{}
	}
	for name := range toggles {
		seen[name] = struct{}{}
	}

	features := make([]string, 0, len(seen))
	for name := range seen {
		if m.FeatureEnabled(name, toggles) {
			features = append(features, name)
		}
	}
	sort.Strings(features)
	return features
}

type Registry struct {
	modules map[string]*Module
}

// NewRegistry parses the embedded catalog.
func NewRegistry() (*Registry, error) {
	return ParseRegistry(catalogYAML)
}

func ParseRegistry(data []byte) (*Registry, error) {
	var raw map[string]*Module
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse industry catalog: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("industry catalog is empty")
	}

	for key, m := range raw {
		if m == nil {
			return nil, fmt.Errorf("industry module %q has no definition", key)
		}
		m.Key = key
		if m.Terminology == nil {
			m.Terminology = map[string]string{}
		}
	}
	return &Registry{modules: raw}, nil
}

func (r *Registry) Get(key string) (*Module, error) {
	m, ok := r.modules[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, key)
	}
	return m, nil
}

func (r *Registry) Has(key string) bool {
	_, ok := r.modules[key]
	return ok
}

func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.modules))
	for k := range r.modules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
