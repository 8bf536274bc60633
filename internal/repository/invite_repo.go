package repository

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Advansoftware/FinWise-sub002/internal/database"
	"github.com/Advansoftware/FinWise-sub002/internal/models"
)

// InviteRepository handles database operations for family invites
type InviteRepository struct {
	db *database.DB
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db *database.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// GenerateInviteToken generates the random bearer token embedded in invite
// links. 16 bytes from crypto/rand, hex encoded to 32 characters
func GenerateInviteToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

const inviteColumns = `id, family_id, family_name, email, invited_by, invited_by_name,
	role, message, token, status, expires_at, created_at`

// CreateInvite inserts a new pending invite, generating its token and filling
// in the generated id
func (r *InviteRepository) CreateInvite(invite *models.FamilyInvite) error {
	token, err := GenerateInviteToken()
	if err != nil {
		return fmt.Errorf("failed to generate invite token: %w", err)
	}
	invite.Token = token
	invite.Status = models.InvitePending

	query := `INSERT INTO family_invites (family_id, family_name, email, invited_by,
		invited_by_name, role, message, token, status, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := r.db.ExecReturningID(query,
		invite.FamilyID, invite.FamilyName, invite.Email, invite.InvitedBy,
		invite.InvitedByName, invite.Role, invite.Message, invite.Token,
		invite.Status, invite.ExpiresAt, invite.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}

	invite.ID = id
	return nil
}

// GetInviteByID retrieves an invite regardless of status, or nil
func (r *InviteRepository) GetInviteByID(inviteID int64) (*models.FamilyInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM family_invites WHERE id = ?`
	return r.queryInvite(query, inviteID)
}

// GetOpenInvite retrieves the pending, non-expired invite for a
// (family, email) pair, or nil
func (r *InviteRepository) GetOpenInvite(familyID int64, email string) (*models.FamilyInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM family_invites
		WHERE family_id = ? AND email = ? AND status = ? AND expires_at > ?
		ORDER BY id ASC LIMIT 1`
	return r.queryInvite(query, familyID, email, models.InvitePending, time.Now())
}

// GetOpenInviteByToken retrieves a pending, non-expired invite by its token,
// or nil. The token alone is sufficient: no family or inviter context needed
func (r *InviteRepository) GetOpenInviteByToken(token string) (*models.FamilyInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM family_invites
		WHERE token = ? AND status = ? AND expires_at > ?`
	return r.queryInvite(query, token, models.InvitePending, time.Now())
}

// GetPendingInviteByToken retrieves a pending invite by its token even past
// its expiry, so callers can report expiry as its own condition rather than
// absence
func (r *InviteRepository) GetPendingInviteByToken(token string) (*models.FamilyInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM family_invites
		WHERE token = ? AND status = ?`
	return r.queryInvite(query, token, models.InvitePending)
}

func (r *InviteRepository) queryInvite(query string, args ...interface{}) (*models.FamilyInvite, error) {
	invite := &models.FamilyInvite{}
	err := r.db.QueryRow(query, args...).Scan(
		&invite.ID, &invite.FamilyID, &invite.FamilyName, &invite.Email,
		&invite.InvitedBy, &invite.InvitedByName, &invite.Role, &invite.Message,
		&invite.Token, &invite.Status, &invite.ExpiresAt, &invite.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return invite, nil
}

// GetPendingByFamily lists a family's pending, non-expired invites
func (r *InviteRepository) GetPendingByFamily(familyID int64) ([]models.FamilyInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM family_invites
		WHERE family_id = ? AND status = ? AND expires_at > ?
		ORDER BY created_at DESC`
	return r.queryInvites(query, familyID, models.InvitePending, time.Now())
}

// GetPendingByEmail lists the pending, non-expired invites targeting an email
func (r *InviteRepository) GetPendingByEmail(email string) ([]models.FamilyInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM family_invites
		WHERE email = ? AND status = ? AND expires_at > ?
		ORDER BY created_at DESC`
	return r.queryInvites(query, email, models.InvitePending, time.Now())
}

func (r *InviteRepository) queryInvites(query string, args ...interface{}) ([]models.FamilyInvite, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invites: %w", err)
	}
	defer rows.Close()

	var invites []models.FamilyInvite
	for rows.Next() {
		var invite models.FamilyInvite
		if err := rows.Scan(
			&invite.ID, &invite.FamilyID, &invite.FamilyName, &invite.Email,
			&invite.InvitedBy, &invite.InvitedByName, &invite.Role, &invite.Message,
			&invite.Token, &invite.Status, &invite.ExpiresAt, &invite.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, invite)
	}

	return invites, rows.Err()
}

// TransitionStatus moves an invite between statuses. Returns false when the
// invite is not in the expected source status, so a lost race (someone else
// already accepted, declined or cancelled it) is detected, not overwritten
func (r *InviteRepository) TransitionStatus(inviteID int64, from, to models.InviteStatus) (bool, error) {
	query := `UPDATE family_invites SET status = ? WHERE id = ? AND status = ?`
	result, err := r.db.Exec(query, to, inviteID, from)
	if err != nil {
		return false, fmt.Errorf("failed to update invite status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// AcceptInvite atomically marks a pending invite accepted and appends the new
// member, re-checking the family's capacity inside the same transaction.
// Returns (accepted, added): accepted=false means the invite was no longer
// pending; added=false means the family was full, in which case the whole
// transaction is rolled back and the invite stays pending
func (r *InviteRepository) AcceptInvite(inviteID int64, member *models.FamilyMember, maxMembers int, now time.Time) (accepted, added bool, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE family_invites SET status = ? WHERE id = ? AND status = ?`,
		models.InviteAccepted, inviteID, models.InvitePending)
	if err != nil {
		return false, false, fmt.Errorf("failed to accept invite: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, false, err
	}
	if rows == 0 {
		return false, false, nil
	}

	added, err = insertMemberIfCapacity(tx, member, maxMembers)
	if err != nil {
		return false, false, fmt.Errorf("failed to add member: %w", err)
	}
	if !added {
		// Family is full: roll back so the invite stays pending
		return true, false, nil
	}

	if _, err := tx.Exec("UPDATE families SET updated_at = ? WHERE id = ?", now, member.FamilyID); err != nil {
		return false, false, fmt.Errorf("failed to touch family: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, true, nil
}
