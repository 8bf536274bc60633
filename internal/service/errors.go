package service

import "net/http"

// ErrorCode identifies one of the expected business error conditions
type ErrorCode string

const (
	CodeFamilyNotFound     ErrorCode = "FAMILY_NOT_FOUND"
	CodeNotAuthorized      ErrorCode = "NOT_AUTHORIZED"
	CodeNotFamilyMember    ErrorCode = "NOT_FAMILY_MEMBER"
	CodeAlreadyMember      ErrorCode = "ALREADY_MEMBER"
	CodeAlreadyOwnsFamily  ErrorCode = "ALREADY_HAS_FAMILY"
	CodeSelfInvite         ErrorCode = "SELF_INVITE"
	CodeMemberLimitReached ErrorCode = "MEMBER_LIMIT_REACHED"
	CodeInvalidSharing     ErrorCode = "INVALID_SHARING_CONFIG"
	CodeInviteNotFound     ErrorCode = "INVITE_NOT_FOUND"
	CodeInviteExpired      ErrorCode = "INVITE_EXPIRED"
	CodeCannotRemoveOwner  ErrorCode = "CANNOT_REMOVE_OWNER"
	CodePlanNotAllowed     ErrorCode = "PLAN_NOT_ALLOWED"
)

// Error is an expected business condition, not a crash. Callers branch on
// Code; Status is a hint for HTTP adapters. Infrastructure failures are never
// wrapped into this type and propagate as plain errors
type Error struct {
	Code    ErrorCode
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrFamilyNotFound     = &Error{CodeFamilyNotFound, "family not found", http.StatusNotFound}
	ErrNotAuthorized      = &Error{CodeNotAuthorized, "not authorized for this action", http.StatusForbidden}
	ErrNotFamilyMember    = &Error{CodeNotFamilyMember, "not a member of this family", http.StatusForbidden}
	ErrAlreadyMember      = &Error{CodeAlreadyMember, "user is already a family member", http.StatusBadRequest}
	ErrAlreadyOwnsFamily  = &Error{CodeAlreadyOwnsFamily, "user already owns a family", http.StatusBadRequest}
	ErrSelfInvite         = &Error{CodeSelfInvite, "cannot invite yourself", http.StatusBadRequest}
	ErrMemberLimitReached = &Error{CodeMemberLimitReached, "member limit reached", http.StatusBadRequest}
	ErrInviteNotFound     = &Error{CodeInviteNotFound, "invite not found or no longer pending", http.StatusNotFound}
	ErrInviteExpired      = &Error{CodeInviteExpired, "invite has expired", http.StatusBadRequest}
	ErrCannotRemoveOwner  = &Error{CodeCannotRemoveOwner, "the family owner cannot be removed", http.StatusBadRequest}
	ErrPlanNotAllowed     = &Error{CodePlanNotAllowed, "plan does not allow family ownership", http.StatusForbidden}
)
