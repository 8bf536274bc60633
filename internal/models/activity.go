package models

import "time"

// ActivityType tags a family activity entry
type ActivityType string

const (
	ActivityMemberJoined    ActivityType = "member_joined"
	ActivityMemberLeft      ActivityType = "member_left"
	ActivityMemberRemoved   ActivityType = "member_removed"
	ActivityRoleChanged     ActivityType = "role_changed"
	ActivitySettingsChanged ActivityType = "settings_changed"
	ActivitySharingUpdated  ActivityType = "sharing_updated"
)

// FamilyActivityItem is an append-only audit fact about a family
type FamilyActivityItem struct {
	ID          int64        `json:"id"`
	FamilyID    int64        `json:"familyId"`
	Type        ActivityType `json:"type"`
	MemberID    string       `json:"memberId"`
	MemberName  string       `json:"memberName"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
}
