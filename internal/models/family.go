package models

import (
	"strings"
	"time"
)

// Role is a member's position in the family hierarchy, ordered
// owner > admin > member
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.Level() > 0
}

// IsAdmin reports whether the role carries administrative rights
func (r Role) IsAdmin() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanManage reports whether a holder of this role may act on a member holding
// the target role. The hierarchy is strict: owners manage admins and members,
// admins manage only members, nobody manages the owner
func (r Role) CanManage(target Role) bool {
	if target == RoleOwner {
		return false
	}
	return r.Level() > target.Level()
}

// MemberStatus is a member's lifecycle state. Removed members are kept as
// soft-deleted rows for audit continuity
type MemberStatus string

const (
	MemberActive  MemberStatus = "active"
	MemberRemoved MemberStatus = "removed"
)

// FamilySettings are family-wide preferences
type FamilySettings struct {
	AllowMembersToInvite   bool `json:"allowMembersToInvite"`
	RequireOwnerApproval   bool `json:"requireOwnerApproval"`
	NotifyOwnerOnActivity  bool `json:"notifyOwnerOnActivity"`
	NotifyMembersOnNewbies bool `json:"notifyMembersOnNewMember"`

	DefaultPermissionLevel Permission `json:"defaultPermissionLevel"`

	MaxSharedWallets int `json:"maxSharedWallets"`
	MaxSharedGoals   int `json:"maxSharedGoals"`
}

// DefaultFamilySettings returns the settings applied to a new family
func DefaultFamilySettings() FamilySettings {
	return FamilySettings{
		AllowMembersToInvite:   false,
		RequireOwnerApproval:   true,
		NotifyOwnerOnActivity:  true,
		NotifyMembersOnNewbies: true,
		DefaultPermissionLevel: PermissionView,
		MaxSharedWallets:       10,
		MaxSharedGoals:         5,
	}
}

// MaxFamilyMembers is the member capacity for the Infinity plan, owner included
const MaxFamilyMembers = 5

// FamilyMember is an account's participation record within a family
type FamilyMember struct {
	ID          string                `json:"id"` // stable member id, never positional
	FamilyID    int64                 `json:"familyId"`
	UserID      string                `json:"userId"`
	Email       string                `json:"email"`
	DisplayName string                `json:"displayName"`
	Role        Role                  `json:"role"`
	Status      MemberStatus          `json:"status"`
	Privacy     MemberPrivacySettings `json:"privacySettings"`
	InvitedAt   time.Time             `json:"invitedAt"`
	JoinedAt    time.Time             `json:"joinedAt"`
	RemovedAt   *time.Time            `json:"removedAt,omitempty"`
	InvitedBy   string                `json:"invitedBy"`
}

func (m *FamilyMember) IsActive() bool {
	return m.Status == MemberActive
}

// Family is the aggregate root of a bounded sharing group
type Family struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`

	OwnerID    string `json:"ownerId"`
	OwnerEmail string `json:"ownerEmail"`

	// Members in join order; removed members are retained
	Members    []FamilyMember `json:"members"`
	MaxMembers int            `json:"maxMembers"`

	DefaultSharing []ResourceSharingConfig `json:"defaultSharingConfig"`
	Settings       FamilySettings          `json:"settings"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ActiveMemberCount counts members with active status
func (f *Family) ActiveMemberCount() int {
	count := 0
	for i := range f.Members {
		if f.Members[i].IsActive() {
			count++
		}
	}
	return count
}

// ActiveMemberByUserID finds the active member record for a user, or nil
func (f *Family) ActiveMemberByUserID(userID string) *FamilyMember {
	for i := range f.Members {
		if f.Members[i].UserID == userID && f.Members[i].IsActive() {
			return &f.Members[i]
		}
	}
	return nil
}

// MemberByID finds a member by its stable member id regardless of status, or nil
func (f *Family) MemberByID(memberID string) *FamilyMember {
	for i := range f.Members {
		if f.Members[i].ID == memberID {
			return &f.Members[i]
		}
	}
	return nil
}

// HasActiveMemberEmail reports whether an active member already uses the email
func (f *Family) HasActiveMemberEmail(email string) bool {
	for i := range f.Members {
		if f.Members[i].IsActive() && strings.EqualFold(f.Members[i].Email, email) {
			return true
		}
	}
	return false
}

// AccessCheck is the result of a permission resolution for one resource access
type AccessCheck struct {
	HasAccess  bool       `json:"hasAccess"`
	Permission Permission `json:"permission"`
	IsOwner    bool       `json:"isOwner"`
	FamilyID   int64      `json:"familyId,omitempty"`
	MemberID   string     `json:"memberId,omitempty"`
}

// SharedResources lists the instances of one resource category that other
// active members share with the caller. All is set when at least one matching
// grant is category-wide, which a plain id list cannot represent
type SharedResources struct {
	All bool     `json:"all"`
	IDs []string `json:"ids"`
}
