package handlers

import (
	"net/http"
	"strconv"

	"github.com/Advansoftware/FinWise-sub002/internal/models"
	"github.com/Advansoftware/FinWise-sub002/internal/service"
)

// FamilyHandler exposes the family lifecycle and member administration
type FamilyHandler struct {
	familyService   *service.FamilyService
	activityService *service.ActivityService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService, activityService *service.ActivityService) *FamilyHandler {
	return &FamilyHandler{
		familyService:   familyService,
		activityService: activityService,
	}
}

func familyIDFrom(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// CreateFamily handles POST /api/family
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)

	defaults := models.DefaultFamilySettings()
	in := service.CreateFamilyInput{Settings: &defaults}
	if err := decodeJSON(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if in.Name == "" {
		respondBadRequest(w, "family name is required")
		return
	}

	family, err := h.familyService.CreateFamily(user.ID, in)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, family)
}

// GetUserFamily handles GET /api/family. Having no family is a normal state
// and returns a null body, not a 404
func (h *FamilyHandler) GetUserFamily(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)

	family, err := h.familyService.GetUserFamily(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, family)
}

// CanCreateFamily handles GET /api/family/can-create
func (h *FamilyHandler) CanCreateFamily(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)

	result, err := h.familyService.CanCreateFamily(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetFamily handles GET /api/family/{id}
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	family, err := h.familyService.GetFamily(familyID, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, family)
}

// UpdateFamily handles PUT /api/family/{id}
func (h *FamilyHandler) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	var in service.UpdateFamilyInput
	if err := decodeJSON(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	family, err := h.familyService.UpdateFamily(familyID, user.ID, in)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, family)
}

// DeleteFamily handles DELETE /api/family/{id}
func (h *FamilyHandler) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	if err := h.familyService.DeleteFamily(familyID, user.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember handles DELETE /api/family/{id}/members/{memberId}
func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	if err := h.familyService.RemoveMember(familyID, user.ID, r.PathValue("memberId")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LeaveFamily handles POST /api/family/{id}/leave
func (h *FamilyHandler) LeaveFamily(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	if err := h.familyService.LeaveFamily(familyID, user.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateRoleRequest struct {
	Role models.Role `json:"role"`
}

// UpdateMemberRole handles PUT /api/family/{id}/members/{memberId}/role
func (h *FamilyHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	var req updateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleMember {
		respondBadRequest(w, "role must be admin or member")
		return
	}

	if err := h.familyService.UpdateMemberRole(familyID, user.ID, r.PathValue("memberId"), req.Role); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDashboard handles GET /api/family/{id}/dashboard
func (h *FamilyHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	dashboard, err := h.familyService.GetFamilyDashboard(familyID, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// GetActivity handles GET /api/family/{id}/activity
func (h *FamilyHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondBadRequest(w, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	items, err := h.activityService.GetFamilyActivity(familyID, user.ID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if items == nil {
		items = []models.FamilyActivityItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
