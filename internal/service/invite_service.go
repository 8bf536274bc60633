package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Advansoftware/FinWise-sub002/internal/models"
	"github.com/Advansoftware/FinWise-sub002/internal/repository"
)

// InviteService implements the invitation lifecycle: create, accept, decline
// and cancel, plus the token-based lookup used by invite links
type InviteService struct {
	familyRepo   *repository.FamilyRepository
	inviteRepo   *repository.InviteRepository
	activityRepo *repository.ActivityRepository
	users        UserDirectory
	email        *EmailService
}

// NewInviteService creates a new invite service
func NewInviteService(familyRepo *repository.FamilyRepository, inviteRepo *repository.InviteRepository,
	activityRepo *repository.ActivityRepository, users UserDirectory, email *EmailService) *InviteService {
	return &InviteService{
		familyRepo:   familyRepo,
		inviteRepo:   inviteRepo,
		activityRepo: activityRepo,
		users:        users,
		email:        email,
	}
}

// InviteMemberInput holds the caller-supplied invite attributes
type InviteMemberInput struct {
	Email   string      `json:"email"`
	Role    models.Role `json:"role"`
	Message string      `json:"message"`
}

// InviteMember creates a pending invite for an email address. Re-inviting an
// address with an open invite returns that invite instead of creating a
// duplicate. The invite email is sent best-effort
func (s *InviteService) InviteMember(familyID int64, actorID string, in InviteMemberInput) (*models.FamilyInvite, error) {
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
	if !actor.Role.IsAdmin() && !family.Settings.AllowMembersToInvite {
		return nil, ErrNotAuthorized
	}

	role := in.Role
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleAdmin && role != models.RoleMember {
		return nil, ErrNotAuthorized
	}

	if family.ActiveMemberCount() >= family.MaxMembers {
		return nil, ErrMemberLimitReached
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if family.HasActiveMemberEmail(email) {
		return nil, ErrAlreadyMember
	}
	if strings.EqualFold(email, actor.Email) {
		return nil, ErrSelfInvite
	}

	// Re-inviting the same address while an invite is open is idempotent
	open, err := s.inviteRepo.GetOpenInvite(familyID, email)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return open, nil
	}

	now := time.Now().UTC()
	invite := &models.FamilyInvite{
		FamilyID:      family.ID,
		FamilyName:    family.Name,
		Email:         email,
		InvitedBy:     actor.UserID,
		InvitedByName: actor.DisplayName,
		Role:          role,
		Message:       in.Message,
		ExpiresAt:     now.Add(models.InviteTTL),
		CreatedAt:     now,
	}
	if err := s.inviteRepo.CreateInvite(invite); err != nil {
		return nil, err
	}

	if err := s.email.SendInviteEmail(context.Background(), invite.Email, invite.InvitedByName,
		invite.FamilyName, invite.Message, invite.Token, invite.ExpiresAt); err != nil {
		log.Printf("Failed to send invite email to %s: %v", invite.Email, err)
	}

	return invite, nil
}

// GetPendingInvites lists a family's open invites. The actor must be an
// active member
func (s *InviteService) GetPendingInvites(familyID int64, actorID string) ([]models.FamilyInvite, error) {
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
	return s.inviteRepo.GetPendingByFamily(familyID)
}

// GetUserPendingInvites lists the open invites addressed to an email
func (s *InviteService) GetUserPendingInvites(email string) ([]models.FamilyInvite, error) {
	return s.inviteRepo.GetPendingByEmail(strings.ToLower(strings.TrimSpace(email)))
}

// GetInviteByToken resolves an invite link. Returns nil for unknown, expired
// or already-settled tokens; the family name is refreshed for display
func (s *InviteService) GetInviteByToken(token string) (*models.FamilyInvite, error) {
	invite, err := s.inviteRepo.GetOpenInviteByToken(token)
	if err != nil || invite == nil {
		return nil, err
	}

	family, err := s.familyRepo.GetFamilyByID(invite.FamilyID)
	if err != nil {
		return nil, err
	}
	if family != nil {
		invite.FamilyName = family.Name
	}
	return invite, nil
}

// AcceptInvite turns an open invite into an active membership. The accepting
// user's email must match the invite; an invite past its expiry reports
// expiry, not absence. Supplied privacy settings are merged over the family's
// sharing template. The status flip and the capacity-checked member insert
// commit atomically; losing either race leaves the invite and the family
// unchanged
func (s *InviteService) AcceptInvite(token, userID string, privacy *models.MemberPrivacySettings) (*models.Family, error) {
	invite, err := s.inviteRepo.GetPendingInviteByToken(token)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, ErrInviteNotFound
	}
	if invite.IsExpired() {
		return nil, ErrInviteExpired
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !strings.EqualFold(user.Email, invite.Email) {
		return nil, ErrNotAuthorized
	}

	family, err := s.familyRepo.GetFamilyByID(invite.FamilyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	if family.ActiveMemberByUserID(userID) != nil {
		return nil, ErrAlreadyMember
	}

	merged, err := mergeMemberPrivacy(family.DefaultSharing, privacy)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	member := &models.FamilyMember{
		ID:          uuid.New().String(),
		FamilyID:    family.ID,
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.Name(),
		Role:        invite.Role,
		Status:      models.MemberActive,
		Privacy:     merged,
		InvitedAt:   invite.CreatedAt,
		JoinedAt:    now,
		InvitedBy:   invite.InvitedBy,
	}

	accepted, added, err := s.inviteRepo.AcceptInvite(invite.ID, member, family.MaxMembers, now)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ErrInviteNotFound
	}
	if !added {
		return nil, ErrMemberLimitReached
	}

	s.logActivity(family.ID, models.ActivityMemberJoined, member.ID, member.DisplayName,
		fmt.Sprintf("%s joined the family", member.DisplayName))

	return s.familyRepo.GetFamilyByID(family.ID)
}

// mergeMemberPrivacy builds a joining member's privacy settings: the default
// template with the family's sharing defaults, overlaid with whatever the
// member supplied. A supplied grant list replaces the template wholesale and
// is validated like any other sharing update
func mergeMemberPrivacy(familySharing []models.ResourceSharingConfig, supplied *models.MemberPrivacySettings) (models.MemberPrivacySettings, error) {
	merged := models.DefaultMemberPrivacy()
	if len(familySharing) > 0 {
		merged.Sharing = append([]models.ResourceSharingConfig(nil), familySharing...)
	}
	if supplied == nil {
		return merged, nil
	}

	if supplied.Sharing != nil {
		for _, grant := range supplied.Sharing {
			if !grant.Resource.Valid() {
				return merged, &Error{CodeInvalidSharing, fmt.Sprintf("unknown resource %q", grant.Resource), http.StatusBadRequest}
			}
			if !grant.Permission.Valid() {
				return merged, &Error{CodeInvalidSharing, fmt.Sprintf("unknown permission %q", grant.Permission), http.StatusBadRequest}
			}
		}
		merged.Sharing = supplied.Sharing
	}
	merged.NotifyOnFamilyActivity = supplied.NotifyOnFamilyActivity
	merged.NotifyOnSharedTransactions = supplied.NotifyOnSharedTransactions
	merged.ShowTotalBalance = supplied.ShowTotalBalance
	merged.ShowIndividualItems = supplied.ShowIndividualItems

	return merged, nil
}

// DeclineInvite settles an open invite as declined. Only the invited address
// may decline; an invite past its expiry reports expiry, not absence. A later
// re-invite is allowed because decline is a settled state, not a block
func (s *InviteService) DeclineInvite(token, userID string) error {
	invite, err := s.inviteRepo.GetPendingInviteByToken(token)
	if err != nil {
		return err
	}
	if invite == nil {
		return ErrInviteNotFound
	}
	if invite.IsExpired() {
		return ErrInviteExpired
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !strings.EqualFold(user.Email, invite.Email) {
		return ErrNotAuthorized
	}

	ok, err := s.inviteRepo.TransitionStatus(invite.ID, models.InvitePending, models.InviteDeclined)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInviteNotFound
	}
	return nil
}

// CancelInvite withdraws a pending invite. The actor must be an active owner
// or admin of the invite's family
func (s *InviteService) CancelInvite(inviteID int64, actorID string) error {
	invite, err := s.inviteRepo.GetInviteByID(inviteID)
	if err != nil {
		return err
	}
	if invite == nil || !invite.IsOpen() {
		return ErrInviteNotFound
	}

	family, err := s.familyRepo.GetFamilyByID(invite.FamilyID)
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
	if !actor.Role.IsAdmin() {
		return ErrNotAuthorized
	}

	ok, err := s.inviteRepo.TransitionStatus(invite.ID, models.InvitePending, models.InviteCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInviteNotFound
	}
	return nil
}

func (s *InviteService) logActivity(familyID int64, activityType models.ActivityType, memberID, memberName, description string) {
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
