package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Advansoftware/FinWise-sub002/internal/models"
	"github.com/Advansoftware/FinWise-sub002/internal/service"
)

// InviteHandler exposes the invitation lifecycle
type InviteHandler struct {
	inviteService *service.InviteService
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(inviteService *service.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// InviteMember handles POST /api/family/{id}/invites
func (h *InviteHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	var in service.InviteMemberInput
	if err := decodeJSON(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if in.Email == "" {
		respondBadRequest(w, "email is required")
		return
	}

	invite, err := h.inviteService.InviteMember(familyID, user.ID, in)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invite)
}

// GetFamilyInvites handles GET /api/family/{id}/invites
func (h *InviteHandler) GetFamilyInvites(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	invites, err := h.inviteService.GetPendingInvites(familyID, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if invites == nil {
		invites = []models.FamilyInvite{}
	}
	writeJSON(w, http.StatusOK, invites)
}

// GetUserInvites handles GET /api/invites, listing the open invites addressed
// to the caller's email
func (h *InviteHandler) GetUserInvites(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)

	invites, err := h.inviteService.GetUserPendingInvites(user.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	if invites == nil {
		invites = []models.FamilyInvite{}
	}
	writeJSON(w, http.StatusOK, invites)
}

// GetInviteByToken handles GET /api/invites/token/{token}. Unauthenticated:
// the invite link lands before the recipient signs in
func (h *InviteHandler) GetInviteByToken(w http.ResponseWriter, r *http.Request) {
	invite, err := h.inviteService.GetInviteByToken(r.PathValue("token"))
	if err != nil {
		respondError(w, err)
		return
	}
	if invite == nil {
		respondError(w, service.ErrInviteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, invite)
}

type acceptInviteRequest struct {
	PrivacySettings *models.MemberPrivacySettings `json:"privacySettings"`
}

// AcceptInvite handles POST /api/invites/token/{token}/accept. The body is
// optional; absent privacy fields keep the default template values
func (h *InviteHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)

	defaults := models.DefaultMemberPrivacy()
	defaults.Sharing = nil
	req := acceptInviteRequest{PrivacySettings: &defaults}
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(w, "invalid request body")
		return
	}

	family, err := h.inviteService.AcceptInvite(r.PathValue("token"), user.ID, req.PrivacySettings)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, family)
}

// DeclineInvite handles POST /api/invites/token/{token}/decline
func (h *InviteHandler) DeclineInvite(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)

	if err := h.inviteService.DeclineInvite(r.PathValue("token"), user.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CancelInvite handles DELETE /api/invites/{inviteId}
func (h *InviteHandler) CancelInvite(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)

	inviteID, err := strconv.ParseInt(r.PathValue("inviteId"), 10, 64)
	if err != nil || inviteID < 1 {
		respondBadRequest(w, "invalid invite id")
		return
	}

	if err := h.inviteService.CancelInvite(inviteID, user.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
