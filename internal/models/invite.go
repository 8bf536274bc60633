package models

import "time"

// InviteStatus is a stored invite state. Expiry is not a stored transition:
// a pending invite past its expiry is treated as absent by every read path
type InviteStatus string

const (
	InvitePending   InviteStatus = "pending"
	InviteAccepted  InviteStatus = "accepted"
	InviteDeclined  InviteStatus = "declined"
	InviteCancelled InviteStatus = "cancelled"
)

// InviteTTL is how long an invite stays acceptable after creation
const InviteTTL = 7 * 24 * time.Hour

// FamilyInvite is a time-boxed, token-bearing offer for an email address to
// join a family with a given role
type FamilyInvite struct {
	ID            int64        `json:"id"`
	FamilyID      int64        `json:"familyId"`
	FamilyName    string       `json:"familyName"`
	Email         string       `json:"email"`
	InvitedBy     string       `json:"invitedBy"`
	InvitedByName string       `json:"invitedByName"`
	Role          Role         `json:"role"`
	Message       string       `json:"message,omitempty"`
	Token         string       `json:"token"`
	Status        InviteStatus `json:"status"`
	ExpiresAt     time.Time    `json:"expiresAt"`
	CreatedAt     time.Time    `json:"createdAt"`
}

func (i *FamilyInvite) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsOpen reports whether the invite can still be accepted
func (i *FamilyInvite) IsOpen() bool {
	return i.Status == InvitePending && !i.IsExpired()
}
