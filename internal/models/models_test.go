package models

import (
	"testing"
	"time"
)

func TestRoleCanManage(t *testing.T) {
	tests := []struct {
		name     string
		actor    Role
		target   Role
		expected bool
	}{
		{"owner manages admin", RoleOwner, RoleAdmin, true},
		{"owner manages member", RoleOwner, RoleMember, true},
		{"owner cannot manage owner", RoleOwner, RoleOwner, false},
		{"admin manages member", RoleAdmin, RoleMember, true},
		{"admin cannot manage admin", RoleAdmin, RoleAdmin, false},
		{"admin cannot manage owner", RoleAdmin, RoleOwner, false},
		{"member manages nobody", RoleMember, RoleMember, false},
		{"member cannot manage owner", RoleMember, RoleOwner, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.actor.CanManage(tt.target); result != tt.expected {
				t.Errorf("%s.CanManage(%s) = %v, want %v", tt.actor, tt.target, result, tt.expected)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleOwner, RoleAdmin, RoleMember} {
		if !role.Valid() {
			t.Errorf("%s should be valid", role)
		}
	}
	if Role("superuser").Valid() {
		t.Error("unknown role should not be valid")
	}
}

func TestPermissionAllows(t *testing.T) {
	tests := []struct {
		name     string
		granted  Permission
		required Permission
		expected bool
	}{
		{"full allows view", PermissionFull, PermissionView, true},
		{"full allows edit", PermissionFull, PermissionEdit, true},
		{"edit allows view", PermissionEdit, PermissionView, true},
		{"view allows view", PermissionView, PermissionView, true},
		{"view denies edit", PermissionView, PermissionEdit, false},
		{"none denies view", PermissionNone, PermissionView, false},
		{"anything allows none", PermissionNone, PermissionNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.granted.Allows(tt.required); result != tt.expected {
				t.Errorf("%s.Allows(%s) = %v, want %v", tt.granted, tt.required, result, tt.expected)
			}
		})
	}
}

func TestShareScopeMatches(t *testing.T) {
	tests := []struct {
		name       string
		scope      ShareScope
		resourceID string
		expected   bool
	}{
		{"all matches anything", ShareAll(), "w1", true},
		{"listed id matches", ShareOnly("w1", "w2"), "w2", true},
		{"unlisted id does not match", ShareOnly("w1", "w2"), "w3", false},
		{"zero value shares nothing", ShareScope{}, "w1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.scope.Matches(tt.resourceID); result != tt.expected {
				t.Errorf("Matches(%q) = %v, want %v", tt.resourceID, result, tt.expected)
			}
		})
	}
}

func TestInviteIsOpen(t *testing.T) {
	tests := []struct {
		name     string
		status   InviteStatus
		expires  time.Time
		expected bool
	}{
		{"pending and unexpired", InvitePending, time.Now().Add(time.Hour), true},
		{"pending but expired", InvitePending, time.Now().Add(-time.Hour), false},
		{"accepted", InviteAccepted, time.Now().Add(time.Hour), false},
		{"declined", InviteDeclined, time.Now().Add(time.Hour), false},
		{"cancelled", InviteCancelled, time.Now().Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invite := &FamilyInvite{Status: tt.status, ExpiresAt: tt.expires}
			if result := invite.IsOpen(); result != tt.expected {
				t.Errorf("IsOpen() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestOwnerPrivacy(t *testing.T) {
	privacy := OwnerPrivacy()

	if len(privacy.Sharing) != len(Resources) {
		t.Fatalf("expected a grant per resource, got %d", len(privacy.Sharing))
	}
	for _, grant := range privacy.Sharing {
		if grant.Permission != PermissionFull {
			t.Errorf("owner grant for %s = %s, want full", grant.Resource, grant.Permission)
		}
		if !grant.Scope.All {
			t.Errorf("owner grant for %s should be category-wide", grant.Resource)
		}
	}
}

func TestGrantFor(t *testing.T) {
	privacy := DefaultMemberPrivacy()

	grant := privacy.GrantFor(ResourceGoals)
	if grant == nil {
		t.Fatal("expected a goals grant in the default template")
	}
	if grant.Permission != PermissionEdit {
		t.Errorf("default goals permission = %s, want edit", grant.Permission)
	}

	privacy.Sharing = privacy.Sharing[:2]
	if privacy.GrantFor(ResourceCategories) != nil {
		t.Error("expected nil for a resource without a grant")
	}
}

func TestFamilyActiveMemberHelpers(t *testing.T) {
	removed := time.Now()
	family := &Family{
		OwnerID: "u1",
		Members: []FamilyMember{
			{ID: "m1", UserID: "u1", Email: "owner@example.com", Role: RoleOwner, Status: MemberActive},
			{ID: "m2", UserID: "u2", Email: "gone@example.com", Role: RoleMember, Status: MemberRemoved, RemovedAt: &removed},
			{ID: "m3", UserID: "u3", Email: "Member@Example.com", Role: RoleMember, Status: MemberActive},
		},
	}

	if count := family.ActiveMemberCount(); count != 2 {
		t.Errorf("ActiveMemberCount() = %d, want 2", count)
	}
	if family.ActiveMemberByUserID("u2") != nil {
		t.Error("removed member should not resolve as active")
	}
	if member := family.ActiveMemberByUserID("u3"); member == nil || member.ID != "m3" {
		t.Error("active member should resolve by user id")
	}
	if family.MemberByID("m2") == nil {
		t.Error("MemberByID should find removed members too")
	}
	if !family.HasActiveMemberEmail("member@example.com") {
		t.Error("email match should be case-insensitive")
	}
	if family.HasActiveMemberEmail("gone@example.com") {
		t.Error("removed member's email should not count as active")
	}
}
