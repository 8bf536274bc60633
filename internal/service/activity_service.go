package service

import (
	"fmt"

	"github.com/Advansoftware/FinWise-sub002/internal/models"
	"github.com/Advansoftware/FinWise-sub002/internal/repository"
)

// DefaultActivityLimit caps activity reads when the caller supplies none
const DefaultActivityLimit = 20

// ActivityService handles the append-only family audit trail
type ActivityService struct {
	familyRepo   *repository.FamilyRepository
	activityRepo *repository.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(familyRepo *repository.FamilyRepository, activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{
		familyRepo:   familyRepo,
		activityRepo: activityRepo,
	}
}

// LogActivityInput describes one audit entry to append
type LogActivityInput struct {
	Type        models.ActivityType `json:"type"`
	MemberID    string              `json:"memberId"`
	MemberName  string              `json:"memberName"`
	Description string              `json:"description"`
}

// LogActivity appends an audit entry, timestamped server-side. Called
// synchronously by every mutation that must not succeed silently
func (s *ActivityService) LogActivity(familyID int64, in LogActivityInput) (*models.FamilyActivityItem, error) {
	item := &models.FamilyActivityItem{
		FamilyID:    familyID,
		Type:        in.Type,
		MemberID:    in.MemberID,
		MemberName:  in.MemberName,
		Description: in.Description,
	}
	if err := s.activityRepo.Append(item); err != nil {
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}
	return item, nil
}

// GetFamilyActivity returns a family's activity newest-first, capped at
// limit. The actor must be an active member
func (s *ActivityService) GetFamilyActivity(familyID int64, actorID string, limit int) ([]models.FamilyActivityItem, error) {
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

	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	return s.activityRepo.GetByFamily(familyID, limit)
}
