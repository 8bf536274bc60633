package service

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Advansoftware/FinWise-sub002/internal/models"
	"github.com/Advansoftware/FinWise-sub002/internal/repository"
)

// FamilyService implements the family lifecycle and member administration
type FamilyService struct {
	familyRepo   *repository.FamilyRepository
	activityRepo *repository.ActivityRepository
	users        UserDirectory
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, activityRepo *repository.ActivityRepository, users UserDirectory) *FamilyService {
	return &FamilyService{
		familyRepo:   familyRepo,
		activityRepo: activityRepo,
		users:        users,
	}
}

// CreateFamilyInput holds the caller-supplied family attributes. Settings
// left nil fall back to the defaults
type CreateFamilyInput struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Icon        string                 `json:"icon"`
	Settings    *models.FamilySettings `json:"settings"`
}

// CreateFamily creates a family owned by userID. The owner becomes the first
// member with every sharing grant raised to full. One family per owner
func (s *FamilyService) CreateFamily(userID string, in CreateFamilyInput) (*models.Family, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.CanOwnFamily() {
		return nil, ErrPlanNotAllowed
	}

	existing, err := s.familyRepo.GetFamilyByOwner(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyOwnsFamily
	}

	now := time.Now().UTC()
	icon := in.Icon
	if icon == "" {
		icon = "🏠"
	}
	settings := models.DefaultFamilySettings()
	if in.Settings != nil {
		settings = *in.Settings
	}

	family := &models.Family{
		Name:           in.Name,
		Description:    in.Description,
		Icon:           icon,
		OwnerID:        user.ID,
		OwnerEmail:     user.Email,
		MaxMembers:     models.MaxFamilyMembers,
		DefaultSharing: models.DefaultSharing(),
		Settings:       settings,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	owner := &models.FamilyMember{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.Name(),
		Role:        models.RoleOwner,
		Status:      models.MemberActive,
		Privacy:     models.OwnerPrivacy(),
		InvitedAt:   now,
		JoinedAt:    now,
		InvitedBy:   user.ID,
	}

	if err := s.familyRepo.CreateFamily(family, owner); err != nil {
		return nil, err
	}

	s.logActivity(family.ID, models.ActivityMemberJoined, owner.ID, owner.DisplayName,
		fmt.Sprintf("%s created the family", owner.DisplayName))

	return family, nil
}

// CanCreateFamilyResult explains whether a user may create a family
type CanCreateFamilyResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// CanCreateFamily checks the plan gate and the one-family-per-owner rule
// without side effects
func (s *FamilyService) CanCreateFamily(userID string) (*CanCreateFamilyResult, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.CanOwnFamily() {
		return &CanCreateFamilyResult{Reason: "family plans require the Infinity tier"}, nil
	}

	existing, err := s.familyRepo.GetFamilyByOwner(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CanCreateFamilyResult{Reason: "you already own a family"}, nil
	}

	return &CanCreateFamilyResult{Allowed: true}, nil
}

// GetFamily retrieves a family the actor belongs to
func (s *FamilyService) GetFamily(familyID int64, actorID string) (*models.Family, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	if family.ActiveMemberByUserID(actorID) == nil {
		return nil, ErrNotFamilyMember
	}
	return family, nil
}

// GetUserFamily resolves the family a user belongs to, or nil when they have
// none. Having no family is a normal state, not an error
func (s *FamilyService) GetUserFamily(userID string) (*models.Family, error) {
	return s.familyRepo.GetUserFamily(userID)
}

// UpdateFamilyInput carries partial family updates; nil fields stay unchanged
type UpdateFamilyInput struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Icon        *string                `json:"icon"`
	Settings    *models.FamilySettings `json:"settings"`
}

// UpdateFamily applies an owner's or admin's edits to the family record
func (s *FamilyService) UpdateFamily(familyID int64, actorID string, in UpdateFamilyInput) (*models.Family, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	actor := family.ActiveMemberByUserID(actorID)
	if actor == nil {
		return nil, ErrNotFamilyMember
	}
	if !actor.Role.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	if in.Name != nil {
		family.Name = *in.Name
	}
	if in.Description != nil {
		family.Description = *in.Description
	}
	if in.Icon != nil {
		family.Icon = *in.Icon
	}
	if in.Settings != nil {
		family.Settings = *in.Settings
	}

	now := time.Now().UTC()
	if err := s.familyRepo.UpdateFamilyInfo(family.ID, family.Name, family.Description,
		family.Icon, family.Settings, now); err != nil {
		return nil, err
	}
	family.UpdatedAt = now

	s.logActivity(family.ID, models.ActivitySettingsChanged, actor.ID, actor.DisplayName,
		fmt.Sprintf("%s updated the family settings", actor.DisplayName))

	return family, nil
}

// DeleteFamily deletes a family and everything attached to it. Owner only
func (s *FamilyService) DeleteFamily(familyID int64, actorID string) error {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return err
	}
	if family == nil {
		return ErrFamilyNotFound
	}
	if family.OwnerID != actorID {
		return ErrNotAuthorized
	}
	return s.familyRepo.DeleteFamily(familyID)
}

// RemoveMember soft-deletes a member. The actor must outrank the target and
// the owner can never be removed
func (s *FamilyService) RemoveMember(familyID int64, actorID, memberID string) error {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return err
	}
	if family == nil {
		return ErrFamilyNotFound
	}

	actor := family.ActiveMemberByUserID(actorID)
	if actor == nil {
		return ErrNotFamilyMember
	}

	target := family.MemberByID(memberID)
	if target == nil || !target.IsActive() {
		return ErrNotFamilyMember
	}
	if target.Role == models.RoleOwner {
		return ErrCannotRemoveOwner
	}
	if !actor.Role.CanManage(target.Role) {
		return ErrNotAuthorized
	}

	if err := s.familyRepo.SetMemberRemoved(familyID, target.ID, time.Now().UTC()); err != nil {
		return err
	}

	s.logActivity(familyID, models.ActivityMemberRemoved, target.ID, target.DisplayName,
		fmt.Sprintf("%s removed %s from the family", actor.DisplayName, target.DisplayName))

	return nil
}

// LeaveFamily lets a member exit on their own. The owner cannot leave; they
// must delete the family instead
func (s *FamilyService) LeaveFamily(familyID int64, actorID string) error {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return err
	}
	if family == nil {
		return ErrFamilyNotFound
	}

	actor := family.ActiveMemberByUserID(actorID)
	if actor == nil {
		return ErrNotFamilyMember
	}
	if actor.Role == models.RoleOwner {
		return ErrCannotRemoveOwner
	}

	if err := s.familyRepo.SetMemberRemoved(familyID, actor.ID, time.Now().UTC()); err != nil {
		return err
	}

	s.logActivity(familyID, models.ActivityMemberLeft, actor.ID, actor.DisplayName,
		fmt.Sprintf("%s left the family", actor.DisplayName))

	return nil
}

// UpdateMemberRole changes a member's role between admin and member. Owner
// only; the owner role itself is never assigned or taken this way
func (s *FamilyService) UpdateMemberRole(familyID int64, actorID, memberID string, role models.Role) error {
	if role != models.RoleAdmin && role != models.RoleMember {
		return ErrNotAuthorized
	}

	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return err
	}
	if family == nil {
		return ErrFamilyNotFound
	}

	actor := family.ActiveMemberByUserID(actorID)
	if actor == nil {
		return ErrNotFamilyMember
	}
	if actor.Role != models.RoleOwner {
		return ErrNotAuthorized
	}

	target := family.MemberByID(memberID)
	if target == nil || !target.IsActive() {
		return ErrNotFamilyMember
	}
	if target.Role == models.RoleOwner {
		return ErrCannotRemoveOwner
	}

	if err := s.familyRepo.SetMemberRole(familyID, target.ID, role, time.Now().UTC()); err != nil {
		return err
	}

	s.logActivity(familyID, models.ActivityRoleChanged, target.ID, target.DisplayName,
		fmt.Sprintf("%s changed %s's role to %s", actor.DisplayName, target.DisplayName, role))

	return nil
}

// IsFamilyMember reports whether a user is an active member of the family
func (s *FamilyService) IsFamilyMember(familyID int64, userID string) (bool, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return false, err
	}
	if family == nil {
		return false, nil
	}
	return family.ActiveMemberByUserID(userID) != nil, nil
}

// IsFamilyOwner reports whether a user owns the given family, or any family
// when familyID is zero
func (s *FamilyService) IsFamilyOwner(userID string, familyID int64) (bool, error) {
	family, err := s.familyRepo.GetFamilyByOwner(userID)
	if err != nil {
		return false, err
	}
	if family == nil {
		return false, nil
	}
	return familyID == 0 || family.ID == familyID, nil
}

// GetFamilyDashboard builds the family overview. Financial totals stay at
// zero until wallet aggregation lands; members and recent activity are real
func (s *FamilyService) GetFamilyDashboard(familyID int64, actorID string) (*models.FamilyDashboard, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	if family.ActiveMemberByUserID(actorID) == nil {
		return nil, ErrNotFamilyMember
	}

	dashboard := &models.FamilyDashboard{
		FamilyID:    family.ID,
		FamilyName:  family.Name,
		SharedGoals: []models.SharedGoal{},
	}

	for i := range family.Members {
		m := &family.Members[i]
		if !m.IsActive() {
			continue
		}
		entry := models.DashboardMember{ID: m.ID, DisplayName: m.DisplayName}
		if m.Privacy.ShowTotalBalance {
			balance := 0.0
			entry.ContributedBalance = &balance
		}
		dashboard.ActiveMembers = append(dashboard.ActiveMembers, entry)
	}

	activity, err := s.activityRepo.GetByFamily(familyID, 10)
	if err != nil {
		return nil, err
	}
	dashboard.RecentActivity = activity

	return dashboard, nil
}

// logActivity records an audit entry. Failures are logged and swallowed so an
// audit write never undoes a committed mutation
func (s *FamilyService) logActivity(familyID int64, activityType models.ActivityType, memberID, memberName, description string) {
	item := &models.FamilyActivityItem{
		FamilyID:    familyID,
		Type:        activityType,
		MemberID:    memberID,
		MemberName:  memberName,
		Description: description,
	}
	if err := s.activityRepo.Append(item); err != nil {
		log.Printf("Failed to log family activity: %v", err)
	}
}
