package service

import (
	"errors"
	"testing"

	"github.com/Advansoftware/FinWise-sub002/internal/models"
)

// setupSharingFixture builds a family where member A shares all wallets with
// full access and member B shares only transaction t1 read-only
func setupSharingFixture(t *testing.T) (*testEnv, *models.Family) {
	t.Helper()
	env := setupTestEnv(t)
	family := env.createFamily(t, "u-owner", "owner@example.com", "Home")
	env.addMember(t, family.ID, "u-owner", "u-a", "a@example.com", models.RoleMember)
	env.addMember(t, family.ID, "u-owner", "u-b", "b@example.com", models.RoleMember)

	// Clear the owner's template grants so only A's and B's matter
	if _, err := env.sharing.UpdateSharing(family.ID, "u-owner", []models.ResourceSharingConfig{}); err != nil {
		t.Fatalf("UpdateSharing for owner failed: %v", err)
	}

	_, err := env.sharing.UpdateSharing(family.ID, "u-a", []models.ResourceSharingConfig{
		{Resource: models.ResourceWallets, Permission: models.PermissionFull, Scope: models.ShareAll()},
	})
	if err != nil {
		t.Fatalf("UpdateSharing for A failed: %v", err)
	}

	_, err = env.sharing.UpdateSharing(family.ID, "u-b", []models.ResourceSharingConfig{
		{Resource: models.ResourceTransactions, Permission: models.PermissionView, Scope: models.ShareOnly("t1")},
		{Resource: models.ResourceWallets, Permission: models.PermissionNone, Scope: models.ShareAll()},
	})
	if err != nil {
		t.Fatalf("UpdateSharing for B failed: %v", err)
	}

	return env, family
}

func TestUpdateSharing(t *testing.T) {
	env := setupTestEnv(t)
	family := env.createFamily(t, "u-owner", "owner@example.com", "Home")
	member := env.addMember(t, family.ID, "u-owner", "u-m1", "m1@example.com", models.RoleMember)

	updated, err := env.sharing.UpdateSharing(family.ID, "u-m1", []models.ResourceSharingConfig{
		{Resource: models.ResourceGoals, Permission: models.PermissionEdit, Scope: models.ShareOnly("g1", "g2")},
	})
	if err != nil {
		t.Fatalf("UpdateSharing failed: %v", err)
	}
	if len(updated.Privacy.Sharing) != 1 {
		t.Errorf("Grants = %d, want wholesale replacement with 1", len(updated.Privacy.Sharing))
	}

	// The replacement persists
	sharing, err := env.sharing.GetMemberSharing(family.ID, "u-owner", member.ID)
	if err != nil {
		t.Fatalf("GetMemberSharing failed: %v", err)
	}
	if len(sharing) != 1 || sharing[0].Resource != models.ResourceGoals {
		t.Errorf("Persisted grants = %+v", sharing)
	}

	// Unknown resources and permissions are rejected
	var svcErr *Error
	_, err = env.sharing.UpdateSharing(family.ID, "u-m1", []models.ResourceSharingConfig{
		{Resource: "stocks", Permission: models.PermissionView, Scope: models.ShareAll()},
	})
	if !errors.As(err, &svcErr) || svcErr.Status != 400 {
		t.Errorf("Unknown resource error = %v, want a 400 validation error", err)
	}
	_, err = env.sharing.UpdateSharing(family.ID, "u-m1", []models.ResourceSharingConfig{
		{Resource: models.ResourceGoals, Permission: "write", Scope: models.ShareAll()},
	})
	if !errors.As(err, &svcErr) || svcErr.Status != 400 {
		t.Errorf("Unknown permission error = %v, want a 400 validation error", err)
	}

	// Non-members cannot hold grants
	env.seedUser(t, "u-stranger", "stranger@example.com", "Stranger", models.PlanFree)
	_, err = env.sharing.UpdateSharing(family.ID, "u-stranger", nil)
	if !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("UpdateSharing as stranger error = %v, want ErrNotFamilyMember", err)
	}
}

func TestCheckResourceAccess(t *testing.T) {
	env, family := setupSharingFixture(t)

	tests := []struct {
		name       string
		userID     string
		resource   models.Resource
		resourceID string
		hasAccess  bool
		permission models.Permission
	}{
		{"B sees any wallet via A's grant", "u-b", models.ResourceWallets, "w42", true, models.PermissionFull},
		{"A sees B's shared transaction", "u-a", models.ResourceTransactions, "t1", true, models.PermissionView},
		{"A cannot see B's other transactions", "u-a", models.ResourceTransactions, "t2", false, models.PermissionNone},
		{"own grants never apply to yourself", "u-a", models.ResourceWallets, "w42", false, models.PermissionNone},
		{"no grants for the category", "u-b", models.ResourceBudgets, "b1", false, models.PermissionNone},
		{"unknown resource category", "u-b", "stocks", "s1", false, models.PermissionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, err := env.sharing.CheckResourceAccess(tt.userID, tt.resource, tt.resourceID, models.PermissionView)
			if err != nil {
				t.Fatalf("CheckResourceAccess failed: %v", err)
			}
			if check.HasAccess != tt.hasAccess {
				t.Errorf("HasAccess = %v, want %v", check.HasAccess, tt.hasAccess)
			}
			if check.Permission != tt.permission {
				t.Errorf("Permission = %s, want %s", check.Permission, tt.permission)
			}
		})
	}

	// A negative answer still carries the caller's family context
	check, err := env.sharing.CheckResourceAccess("u-a", models.ResourceTransactions, "t2", models.PermissionView)
	if err != nil {
		t.Fatalf("CheckResourceAccess failed: %v", err)
	}
	if check.FamilyID != family.ID || check.MemberID == "" {
		t.Errorf("Expected family context on a denial, got %+v", check)
	}

	// The owner flag reflects family ownership, not grant strength
	check, err = env.sharing.CheckResourceAccess("u-owner", models.ResourceWallets, "w1", models.PermissionView)
	if err != nil {
		t.Fatalf("CheckResourceAccess failed: %v", err)
	}
	if !check.IsOwner {
		t.Error("Expected IsOwner for the family owner")
	}

	// Users without a family get a plain denial
	env.seedUser(t, "u-solo", "solo@example.com", "Solo", models.PlanFree)
	check, err = env.sharing.CheckResourceAccess("u-solo", models.ResourceWallets, "w1", models.PermissionView)
	if err != nil {
		t.Fatalf("CheckResourceAccess failed: %v", err)
	}
	if check.HasAccess || check.FamilyID != 0 {
		t.Errorf("Expected empty denial for family-less user, got %+v", check)
	}
}

func TestCheckResourceAccessAfterRemoval(t *testing.T) {
	env, family := setupSharingFixture(t)

	check, err := env.sharing.CheckResourceAccess("u-b", models.ResourceWallets, "w1", models.PermissionView)
	if err != nil {
		t.Fatalf("CheckResourceAccess failed: %v", err)
	}
	if !check.HasAccess {
		t.Fatal("Expected access before removal")
	}

	got, _ := env.families.GetFamily(family.ID, "u-owner")
	memberA := got.ActiveMemberByUserID("u-a")
	if err := env.families.RemoveMember(family.ID, "u-owner", memberA.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	// No materialized permissions to clean up: the next check sees the removal
	check, err = env.sharing.CheckResourceAccess("u-b", models.ResourceWallets, "w1", models.PermissionView)
	if err != nil {
		t.Fatalf("CheckResourceAccess failed: %v", err)
	}
	if check.HasAccess {
		t.Error("Removed member's grants should no longer apply")
	}
}

func TestCheckResourceAccessRequiredPermission(t *testing.T) {
	env := setupTestEnv(t)
	family := env.createFamily(t, "u-owner", "owner@example.com", "Home")
	env.addMember(t, family.ID, "u-owner", "u-c", "c@example.com", models.RoleMember)
	env.addMember(t, family.ID, "u-owner", "u-d", "d@example.com", models.RoleMember)

	// C joins first with a view-only grant, D later with a full one
	if _, err := env.sharing.UpdateSharing(family.ID, "u-c", []models.ResourceSharingConfig{
		{Resource: models.ResourceWallets, Permission: models.PermissionView, Scope: models.ShareAll()},
	}); err != nil {
		t.Fatalf("UpdateSharing for C failed: %v", err)
	}
	if _, err := env.sharing.UpdateSharing(family.ID, "u-d", []models.ResourceSharingConfig{
		{Resource: models.ResourceWallets, Permission: models.PermissionFull, Scope: models.ShareAll()},
	}); err != nil {
		t.Fatalf("UpdateSharing for D failed: %v", err)
	}

	// Requiring view resolves against C's grant, the first match
	check, err := env.sharing.CheckResourceAccess("u-owner", models.ResourceWallets, "w1", models.PermissionView)
	if err != nil {
		t.Fatalf("CheckResourceAccess failed: %v", err)
	}
	if !check.HasAccess || check.Permission != models.PermissionView {
		t.Errorf("View check = %+v, want view access via the first grant", check)
	}

	// Requiring edit must skip past C's weaker grant and land on D's
	check, err = env.sharing.CheckResourceAccess("u-owner", models.ResourceWallets, "w1", models.PermissionEdit)
	if err != nil {
		t.Fatalf("CheckResourceAccess failed: %v", err)
	}
	if !check.HasAccess || check.Permission != models.PermissionFull {
		t.Errorf("Edit check = %+v, want full access via the stronger grant", check)
	}

	// No grant satisfies full once D drops theirs
	if _, err := env.sharing.UpdateSharing(family.ID, "u-d", []models.ResourceSharingConfig{}); err != nil {
		t.Fatalf("UpdateSharing for D failed: %v", err)
	}
	check, err = env.sharing.CheckResourceAccess("u-owner", models.ResourceWallets, "w1", models.PermissionFull)
	if err != nil {
		t.Fatalf("CheckResourceAccess failed: %v", err)
	}
	if check.HasAccess {
		t.Errorf("Full check = %+v, want denial when only a view grant remains", check)
	}
}

func TestGetSharedResources(t *testing.T) {
	env, family := setupSharingFixture(t)

	// A's category-wide wallet grant reaches B
	shared, err := env.sharing.GetSharedResources("u-b", models.ResourceWallets)
	if err != nil {
		t.Fatalf("GetSharedResources failed: %v", err)
	}
	if !shared.All {
		t.Errorf("Expected a category-wide wallet share, got %+v", shared)
	}

	// Owner shares wallets broadly, A narrows to two transactions
	_, err = env.sharing.UpdateSharing(family.ID, "u-owner", []models.ResourceSharingConfig{
		{Resource: models.ResourceWallets, Permission: models.PermissionFull, Scope: models.ShareAll()},
	})
	if err != nil {
		t.Fatalf("UpdateSharing for owner failed: %v", err)
	}
	_, err = env.sharing.UpdateSharing(family.ID, "u-a", []models.ResourceSharingConfig{
		{Resource: models.ResourceTransactions, Permission: models.PermissionView, Scope: models.ShareOnly("t1", "t2")},
	})
	if err != nil {
		t.Fatalf("UpdateSharing for A failed: %v", err)
	}

	shared, err = env.sharing.GetSharedResources("u-owner", models.ResourceTransactions)
	if err != nil {
		t.Fatalf("GetSharedResources failed: %v", err)
	}
	if shared.All {
		t.Error("No category-wide transaction grant should remain")
	}
	// Union of A's {t1, t2} and B's {t1}, deduplicated
	if len(shared.IDs) != 2 {
		t.Errorf("IDs = %v, want deduplicated [t1 t2]", shared.IDs)
	}
	seen := map[string]bool{}
	for _, id := range shared.IDs {
		seen[id] = true
	}
	if !seen["t1"] || !seen["t2"] {
		t.Errorf("IDs = %v, want t1 and t2", shared.IDs)
	}

	// PermissionNone grants share nothing
	shared, err = env.sharing.GetSharedResources("u-a", models.ResourceWallets)
	if err != nil {
		t.Fatalf("GetSharedResources failed: %v", err)
	}
	if !shared.All {
		t.Error("Owner's wallet share should still reach A")
	}
	shared, err = env.sharing.GetSharedResources("u-owner", models.ResourceBudgets)
	if err != nil {
		t.Fatalf("GetSharedResources failed: %v", err)
	}
	if shared.All || len(shared.IDs) != 0 {
		t.Errorf("Expected nothing shared for budgets, got %+v", shared)
	}
}

func TestActivityLimit(t *testing.T) {
	env := setupTestEnv(t)
	family := env.createFamily(t, "u-owner", "owner@example.com", "Home")

	for i := 0; i < 25; i++ {
		_, err := env.activity.LogActivity(family.ID, LogActivityInput{
			Type:        models.ActivitySettingsChanged,
			MemberID:    "m",
			MemberName:  "Owner",
			Description: "tweak",
		})
		if err != nil {
			t.Fatalf("LogActivity failed: %v", err)
		}
	}

	items, err := env.activity.GetFamilyActivity(family.ID, "u-owner", 0)
	if err != nil {
		t.Fatalf("GetFamilyActivity failed: %v", err)
	}
	if len(items) != DefaultActivityLimit {
		t.Errorf("Default limit returned %d items, want %d", len(items), DefaultActivityLimit)
	}

	items, err = env.activity.GetFamilyActivity(family.ID, "u-owner", 5)
	if err != nil {
		t.Fatalf("GetFamilyActivity failed: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("Explicit limit returned %d items, want 5", len(items))
	}

	env.seedUser(t, "u-stranger", "stranger@example.com", "Stranger", models.PlanFree)
	if _, err := env.activity.GetFamilyActivity(family.ID, "u-stranger", 0); !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("Activity as stranger error = %v, want ErrNotFamilyMember", err)
	}
}
