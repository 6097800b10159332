package model

import "time"

type User struct {
	ID             string     `json:"id" bson:"_id"`
	TenantID       string     `json:"tenant_id" bson:"tenant_id"`
	Email          string     `json:"email" bson:"email"`
	FirstName      string     `json:"first_name" bson:"first_name"`
	LastName       string     `json:"last_name" bson:"last_name"`
	Role           string     `json:"role" bson:"role"`
	MembershipTier string     `json:"membership_tier,omitempty" bson:"membership_tier,omitempty"`
	PasswordHash   string     `json:"-" bson:"password_hash"`
	IsActive       bool       `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
}

type RegisterRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8,max=128"`
	FirstName      string `json:"first_name" validate:"required,min=1,max=100"`
	LastName       string `json:"last_name" validate:"required,min=1,max=100"`
	Role           string `json:"role,omitempty" validate:"omitempty,oneof=tenant_admin staff member"`
	MembershipTier string `json:"membership_tier,omitempty" validate:"omitempty,oneof=basic premium enterprise"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
	User        *User  `json:"user"`
}

// Identity is the authenticated caller as carried by the access token.
type Identity struct {
	UserID         string `json:"user_id"`
	TenantID       string `json:"tenant_id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	MembershipTier string `json:"membership_tier,omitempty"`
}
