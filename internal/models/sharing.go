package models

// Resource is a category of financial data a member can share with the family
type Resource string

const (
	ResourceWallets      Resource = "wallets"
	ResourceTransactions Resource = "transactions"
	ResourceBudgets      Resource = "budgets"
	ResourceGoals        Resource = "goals"
	ResourceInstallments Resource = "installments"
	ResourceReports      Resource = "reports"
	ResourceCategories   Resource = "categories"
)

// Resources lists every shareable resource category
var Resources = []Resource{
	ResourceWallets,
	ResourceTransactions,
	ResourceBudgets,
	ResourceGoals,
	ResourceInstallments,
	ResourceReports,
	ResourceCategories,
}

func (r Resource) Valid() bool {
	for _, known := range Resources {
		if r == known {
			return true
		}
	}
	return false
}

// Permission is the access level attached to a sharing grant.
// Levels are totally ordered: none < view < edit < full
type Permission string

const (
	PermissionNone Permission = "none"
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
	PermissionFull Permission = "full"
)

func (p Permission) Level() int {
	switch p {
	case PermissionView:
		return 1
	case PermissionEdit:
		return 2
	case PermissionFull:
		return 3
	default:
		return 0
	}
}

func (p Permission) Valid() bool {
	switch p {
	case PermissionNone, PermissionView, PermissionEdit, PermissionFull:
		return true
	}
	return false
}

// Allows reports whether this permission level satisfies the required one
func (p Permission) Allows(required Permission) bool {
	return p.Level() >= required.Level()
}

// ShareScope selects which instances of a resource category a grant covers.
// Either All is true (category-wide share) or IDs holds the exact instances.
// The zero value shares nothing
type ShareScope struct {
	All bool     `json:"all"`
	IDs []string `json:"ids,omitempty"`
}

// ShareAll returns a scope covering every instance of the category
func ShareAll() ShareScope {
	return ShareScope{All: true}
}

// ShareOnly returns a scope restricted to the given instance ids
func ShareOnly(ids ...string) ShareScope {
	return ShareScope{IDs: ids}
}

// Matches reports whether the scope covers the given resource instance
func (s ShareScope) Matches(resourceID string) bool {
	if s.All {
		return true
	}
	for _, id := range s.IDs {
		if id == resourceID {
			return true
		}
	}
	return false
}

// ResourceSharingConfig is one grant: how much of one resource category its
// owning member exposes to the rest of the family
type ResourceSharingConfig struct {
	Resource   Resource   `json:"resource"`
	Permission Permission `json:"permission"`
	Scope      ShareScope `json:"scope"`
}

// MemberPrivacySettings holds a member's own sharing grants plus their
// notification and visibility preferences
type MemberPrivacySettings struct {
	Sharing []ResourceSharingConfig `json:"sharing"`

	NotifyOnFamilyActivity     bool `json:"notifyOnFamilyActivity"`
	NotifyOnSharedTransactions bool `json:"notifyOnSharedTransactions"`
	ShowTotalBalance           bool `json:"showTotalBalance"`
	ShowIndividualItems        bool `json:"showIndividualItems"`
}

// GrantFor returns the member's grant for a resource category, or nil
func (s *MemberPrivacySettings) GrantFor(resource Resource) *ResourceSharingConfig {
	for i := range s.Sharing {
		if s.Sharing[i].Resource == resource {
			return &s.Sharing[i]
		}
	}
	return nil
}

// DefaultSharing returns the default sharing template applied to new members
func DefaultSharing() []ResourceSharingConfig {
	return []ResourceSharingConfig{
		{Resource: ResourceWallets, Permission: PermissionView, Scope: ShareAll()},
		{Resource: ResourceTransactions, Permission: PermissionView, Scope: ShareAll()},
		{Resource: ResourceBudgets, Permission: PermissionView, Scope: ShareAll()},
		{Resource: ResourceGoals, Permission: PermissionEdit, Scope: ShareAll()},
		{Resource: ResourceInstallments, Permission: PermissionView, Scope: ShareAll()},
		{Resource: ResourceReports, Permission: PermissionView, Scope: ShareAll()},
		{Resource: ResourceCategories, Permission: PermissionView, Scope: ShareAll()},
	}
}

// DefaultMemberPrivacy returns the privacy settings applied to a member who
// joins without supplying their own
func DefaultMemberPrivacy() MemberPrivacySettings {
	return MemberPrivacySettings{
		Sharing:                    DefaultSharing(),
		NotifyOnFamilyActivity:     true,
		NotifyOnSharedTransactions: true,
		ShowTotalBalance:           true,
		ShowIndividualItems:        false,
	}
}

// OwnerPrivacy is the default template with every grant raised to full,
// applied to the member created for the family owner
func OwnerPrivacy() MemberPrivacySettings {
	privacy := DefaultMemberPrivacy()
	for i := range privacy.Sharing {
		privacy.Sharing[i].Permission = PermissionFull
	}
	return privacy
}
