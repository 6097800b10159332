package model

import "time"

type Tenant struct {
	ID             string          `json:"id" bson:"_id"`
	Name           string          `json:"name" bson:"name"`
	Subdomain      string          `json:"subdomain" bson:"subdomain"`
	IndustryModule string          `json:"industry_module" bson:"industry_module"`
	FeatureToggles map[string]bool `json:"feature_toggles" bson:"feature_toggles"`
	IsActive       bool            `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" bson:"updated_at"`
}

type TenantCreate struct {
	Name           string `json:"name" validate:"required,min=2,max=200"`
	Subdomain      string `json:"subdomain" validate:"required,min=2,max=63,subdomain"`
	IndustryModule string `json:"industry_module" validate:"omitempty,min=2,max=50"`
	AdminEmail     string `json:"admin_email" validate:"required,email"`
	AdminPassword  string `json:"admin_password" validate:"required,min=8,max=128"`
	AdminFirstName string `json:"admin_first_name" validate:"required,min=1,max=100"`
	AdminLastName  string `json:"admin_last_name" validate:"required,min=1,max=100"`
}

type TenantModuleUpdate struct {
	IndustryModule string          `json:"industry_module,omitempty" validate:"omitempty,min=2,max=50"`
	FeatureToggles map[string]bool `json:"feature_toggles,omitempty"`
}
