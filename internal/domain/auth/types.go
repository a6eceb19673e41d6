package auth

// Package auth contains domain-level types for the gateway session.
// It is pure and free of framework/adapter concerns.

import "time"

// SubscriptionStatus mirrors the subscription state reported by the upstream
// service. Keep string form for easy persistence.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// UserProfile is the profile the upstream service returns at login.
type UserProfile struct {
	ID                    string             `json:"id"`
	Email                 string             `json:"email"`
	DisplayName           string             `json:"display_name"`
	SubscriptionStatus    SubscriptionStatus `json:"subscription_status"`
	SubscriptionExpiresAt *time.Time         `json:"subscription_expires_at,omitempty"`
}

// Session is the record the gateway persists for the authenticated user.
// Token is the opaque bearer credential issued by the upstream service;
// the session is authenticated exactly when Token is non-empty.
type Session struct {
	Token     string       `json:"token"`
	User      *UserProfile `json:"user,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool { return s.Token != "" }
