package handlers

import (
	"net/http"

	"github.com/Advansoftware/FinWise-sub002/internal/models"
	"github.com/Advansoftware/FinWise-sub002/internal/service"
)

// SharingHandler exposes sharing grants and permission resolution
type SharingHandler struct {
	sharingService *service.SharingService
}

// NewSharingHandler creates a new sharing handler
func NewSharingHandler(sharingService *service.SharingService) *SharingHandler {
	return &SharingHandler{sharingService: sharingService}
}

type updateSharingRequest struct {
	Sharing []models.ResourceSharingConfig `json:"sharing"`
}

// UpdateSharing handles PUT /api/family/{id}/sharing, replacing the caller's
// own grants
func (h *SharingHandler) UpdateSharing(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	var req updateSharingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	member, err := h.sharingService.UpdateSharing(familyID, user.ID, req.Sharing)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// GetMemberSharing handles GET /api/family/{id}/members/{memberId}/sharing
func (h *SharingHandler) GetMemberSharing(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)
	familyID, ok := familyIDFrom(r)
	if !ok {
		respondBadRequest(w, "invalid family id")
		return
	}

	sharing, err := h.sharingService.GetMemberSharing(familyID, user.ID, r.PathValue("memberId"))
	if err != nil {
		respondError(w, err)
		return
	}
	if sharing == nil {
		sharing = []models.ResourceSharingConfig{}
	}
	writeJSON(w, http.StatusOK, sharing)
}

// CheckAccess handles GET /api/sharing/access?resource=&resourceId=&required=
func (h *SharingHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)

	resource := models.Resource(r.URL.Query().Get("resource"))
	resourceID := r.URL.Query().Get("resourceId")
	if resource == "" || resourceID == "" {
		respondBadRequest(w, "resource and resourceId are required")
		return
	}

	required := models.PermissionView
	if raw := r.URL.Query().Get("required"); raw != "" {
		required = models.Permission(raw)
		if !required.Valid() {
			respondBadRequest(w, "required must be one of none, view, edit, full")
			return
		}
	}

	check, err := h.sharingService.CheckResourceAccess(user.ID, resource, resourceID, required)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// GetSharedResources handles GET /api/sharing/resources?resource=
func (h *SharingHandler) GetSharedResources(w http.ResponseWriter, r *http.Request) {
	user := AuthUserFrom(r)

	resource := models.Resource(r.URL.Query().Get("resource"))
	if resource == "" {
		respondBadRequest(w, "resource is required")
		return
	}

	shared, err := h.sharingService.GetSharedResources(user.ID, resource)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shared)
}
