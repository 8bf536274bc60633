package models

import "time"

// Plan tiers known to the billing system. Only the plan gate matters here
const (
	PlanFree     = "free"
	PlanPlus     = "plus"
	PlanInfinity = "infinity"
)

// User is the identity record supplied by the account directory
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Plan        string    `json:"plan"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CanOwnFamily reports whether the user's plan tier permits owning a family
func (u *User) CanOwnFamily() bool {
	return u.Plan == PlanInfinity
}

// Name returns the display name, falling back to the email address
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
