package service

import (
	"path/filepath"
	"testing"

	"github.com/Advansoftware/FinWise-sub002/internal/database"
	"github.com/Advansoftware/FinWise-sub002/internal/models"
	"github.com/Advansoftware/FinWise-sub002/internal/repository"
)

// testEnv wires the full service stack against a throwaway SQLite database
type testEnv struct {
	db *database.DB

	familyRepo   *repository.FamilyRepository
	inviteRepo   *repository.InviteRepository
	activityRepo *repository.ActivityRepository

	families *FamilyService
	invites  *InviteService
	sharing  *SharingService
	activity *ActivityService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "service_test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	emailService, err := NewEmailService("", "", "", "")
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}

	return &testEnv{
		db:           db,
		familyRepo:   familyRepo,
		inviteRepo:   inviteRepo,
		activityRepo: activityRepo,
		families:     NewFamilyService(familyRepo, activityRepo, userRepo),
		invites:      NewInviteService(familyRepo, inviteRepo, activityRepo, userRepo, emailService),
		sharing:      NewSharingService(familyRepo, activityRepo),
		activity:     NewActivityService(familyRepo, activityRepo),
	}
}

func (e *testEnv) seedUser(t *testing.T, id, email, name, plan string) {
	t.Helper()
	_, err := e.db.Exec(
		"INSERT INTO users (id, email, display_name, plan, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)",
		id, email, name, plan)
	if err != nil {
		t.Fatalf("Failed to seed user %s: %v", id, err)
	}
}

// createFamily seeds an Infinity-plan owner and creates their family
func (e *testEnv) createFamily(t *testing.T, ownerID, ownerEmail, familyName string) *models.Family {
	t.Helper()
	e.seedUser(t, ownerID, ownerEmail, "Owner "+ownerID, models.PlanInfinity)

	family, err := e.families.CreateFamily(ownerID, CreateFamilyInput{Name: familyName})
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}
	return family
}

// addMember seeds a user and walks them through the invite and accept flow
func (e *testEnv) addMember(t *testing.T, familyID int64, ownerID, userID, email string, role models.Role) *models.FamilyMember {
	t.Helper()
	e.seedUser(t, userID, email, "User "+userID, models.PlanFree)

	invite, err := e.invites.InviteMember(familyID, ownerID, InviteMemberInput{Email: email, Role: role})
	if err != nil {
		t.Fatalf("Failed to invite %s: %v", email, err)
	}

	family, err := e.invites.AcceptInvite(invite.Token, userID, nil)
	if err != nil {
		t.Fatalf("Failed to accept invite for %s: %v", email, err)
	}

	member := family.ActiveMemberByUserID(userID)
	if member == nil {
		t.Fatalf("Member %s missing after accept", userID)
	}
	return member
}
