package service

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Advansoftware/FinWise-sub002/internal/models"
	"github.com/Advansoftware/FinWise-sub002/internal/repository"
)

// SharingService implements per-member sharing grants and the query-time
// permission resolution built on them
type SharingService struct {
	familyRepo   *repository.FamilyRepository
	activityRepo *repository.ActivityRepository
}

// NewSharingService creates a new sharing service
func NewSharingService(familyRepo *repository.FamilyRepository, activityRepo *repository.ActivityRepository) *SharingService {
	return &SharingService{
		familyRepo:   familyRepo,
		activityRepo: activityRepo,
	}
}

// UpdateSharing replaces the actor's own sharing grants wholesale. Members
// control only what they themselves share; nobody edits another member's
// grants, not even the owner
func (s *SharingService) UpdateSharing(familyID int64, actorID string, sharing []models.ResourceSharingConfig) (*models.FamilyMember, error) {
	for _, grant := range sharing {
		if !grant.Resource.Valid() {
			return nil, &Error{CodeInvalidSharing, fmt.Sprintf("unknown resource %q", grant.Resource), http.StatusBadRequest}
		}
		if !grant.Permission.Valid() {
			return nil, &Error{CodeInvalidSharing, fmt.Sprintf("unknown permission %q", grant.Permission), http.StatusBadRequest}
		}
	}

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

	actor.Privacy.Sharing = sharing
	if err := s.familyRepo.SetMemberPrivacy(familyID, actor.ID, actor.Privacy, time.Now().UTC()); err != nil {
		return nil, err
	}

	s.logActivity(familyID, models.ActivitySharingUpdated, actor.ID, actor.DisplayName,
		fmt.Sprintf("%s updated their sharing preferences", actor.DisplayName))

	return actor, nil
}

// GetMemberSharing returns a member's sharing grants. Any active member may
// read them: the grants describe what is exposed to the family anyway
func (s *SharingService) GetMemberSharing(familyID int64, actorID, memberID string) ([]models.ResourceSharingConfig, error) {
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

	target := family.MemberByID(memberID)
	if target == nil {
		return nil, ErrNotFamilyMember
	}
	return target.Privacy.Sharing, nil
}

// CheckResourceAccess resolves whether userID may act on one resource
// instance owned by another family member at the required permission level.
// The scan accepts the first grant that both covers the instance and
// satisfies required, so a weaker grant earlier in join order never shadows
// a satisfying one later. Permissions are never materialized: the answer
// comes from scanning the current grants, so removing a member or tightening
// a grant takes effect on the next call. Having no access is a valid result,
// not an error
func (s *SharingService) CheckResourceAccess(userID string, resource models.Resource, resourceID string, required models.Permission) (*models.AccessCheck, error) {
	check := &models.AccessCheck{Permission: models.PermissionNone}
	if !resource.Valid() || !required.Valid() {
		return check, nil
	}

	family, err := s.familyRepo.GetUserFamily(userID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return check, nil
	}

	self := family.ActiveMemberByUserID(userID)
	if self == nil {
		return check, nil
	}

	check.IsOwner = family.OwnerID == userID
	check.FamilyID = family.ID
	check.MemberID = self.ID

	for i := range family.Members {
		m := &family.Members[i]
		if m.ID == self.ID || !m.IsActive() {
			continue
		}
		grant := m.Privacy.GrantFor(resource)
		if grant == nil || grant.Permission == models.PermissionNone {
			continue
		}
		if !grant.Permission.Allows(required) {
			continue
		}
		if !grant.Scope.Matches(resourceID) {
			continue
		}
		check.HasAccess = true
		check.Permission = grant.Permission
		return check, nil
	}

	return check, nil
}

// GetSharedResources returns which instances of one resource category the
// rest of the family shares with userID: a category-wide flag when any grant
// covers everything, otherwise the deduplicated union of shared instance ids
func (s *SharingService) GetSharedResources(userID string, resource models.Resource) (*models.SharedResources, error) {
	shared := &models.SharedResources{IDs: []string{}}
	if !resource.Valid() {
		return shared, nil
	}

	family, err := s.familyRepo.GetUserFamily(userID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return shared, nil
	}

	self := family.ActiveMemberByUserID(userID)
	if self == nil {
		return shared, nil
	}

	seen := make(map[string]bool)
	for i := range family.Members {
		m := &family.Members[i]
		if m.ID == self.ID || !m.IsActive() {
			continue
		}
		grant := m.Privacy.GrantFor(resource)
		if grant == nil || grant.Permission == models.PermissionNone {
			continue
		}
		if grant.Scope.All {
			shared.All = true
			continue
		}
		for _, id := range grant.Scope.IDs {
			if !seen[id] {
				seen[id] = true
				shared.IDs = append(shared.IDs, id)
			}
		}
	}

	return shared, nil
}

func (s *SharingService) logActivity(familyID int64, activityType models.ActivityType, memberID, memberName, description string) {
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
