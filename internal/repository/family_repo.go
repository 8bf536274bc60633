package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Advansoftware/FinWise-sub002/internal/database"
	"github.com/Advansoftware/FinWise-sub002/internal/models"
)

// FamilyRepository handles database operations for the family aggregate
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

const memberColumns = `member_id, family_id, user_id, email, display_name, role,
	status, privacy_settings, invited_at, joined_at, removed_at, invited_by`

// CreateFamily inserts a new family together with its owner member in one
// transaction and fills in the generated family id
func (r *FamilyRepository) CreateFamily(family *models.Family, owner *models.FamilyMember) error {
	defaultSharing, err := json.Marshal(family.DefaultSharing)
	if err != nil {
		return fmt.Errorf("failed to encode default sharing: %w", err)
	}
	settings, err := json.Marshal(family.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO families (name, description, icon, owner_id, owner_email,
		max_members, default_sharing, settings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	familyID, err := tx.ExecReturningID(query,
		family.Name, family.Description, family.Icon, family.OwnerID, family.OwnerEmail,
		family.MaxMembers, string(defaultSharing), string(settings),
		family.CreatedAt, family.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create family: %w", err)
	}

	family.ID = familyID
	owner.FamilyID = familyID

	if err := insertMember(tx, owner); err != nil {
		return fmt.Errorf("failed to add owner member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	family.Members = []models.FamilyMember{*owner}
	return nil
}

func insertMember(q database.DBTX, m *models.FamilyMember) error {
	privacy, err := json.Marshal(m.Privacy)
	if err != nil {
		return fmt.Errorf("failed to encode privacy settings: %w", err)
	}

	query := `INSERT INTO family_members (` + memberColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = q.Exec(query,
		m.ID, m.FamilyID, m.UserID, m.Email, m.DisplayName, m.Role,
		m.Status, string(privacy), m.InvitedAt, m.JoinedAt, nil, m.InvitedBy)
	return err
}

// insertMemberIfCapacity appends a member only while the family's active
// member count is below maxMembers. The capacity check and the insert run as
// one statement so concurrent joins cannot overshoot the limit
func insertMemberIfCapacity(q database.DBTX, m *models.FamilyMember, maxMembers int) (bool, error) {
	privacy, err := json.Marshal(m.Privacy)
	if err != nil {
		return false, fmt.Errorf("failed to encode privacy settings: %w", err)
	}

	query := `INSERT INTO family_members (` + memberColumns + `)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		FROM (SELECT 1) AS capacity_check
		WHERE (SELECT COUNT(*) FROM family_members
			WHERE family_id = ? AND status = ?) < ?`
	result, err := q.Exec(query,
		m.ID, m.FamilyID, m.UserID, m.Email, m.DisplayName, m.Role,
		m.Status, string(privacy), m.InvitedAt, m.JoinedAt, nil, m.InvitedBy,
		m.FamilyID, models.MemberActive, maxMembers)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// GetFamilyByID retrieves a family with all of its members, or nil
func (r *FamilyRepository) GetFamilyByID(familyID int64) (*models.Family, error) {
	query := `SELECT id, name, description, icon, owner_id, owner_email, max_members,
		default_sharing, settings, created_at, updated_at
		FROM families WHERE id = ?`

	family := &models.Family{}
	var defaultSharing, settings string
	err := r.db.QueryRow(query, familyID).Scan(
		&family.ID, &family.Name, &family.Description, &family.Icon,
		&family.OwnerID, &family.OwnerEmail, &family.MaxMembers,
		&defaultSharing, &settings, &family.CreatedAt, &family.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	if err := json.Unmarshal([]byte(defaultSharing), &family.DefaultSharing); err != nil {
		return nil, fmt.Errorf("failed to decode default sharing: %w", err)
	}
	if err := json.Unmarshal([]byte(settings), &family.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	members, err := r.getFamilyMembers(familyID)
	if err != nil {
		return nil, err
	}
	family.Members = members

	return family, nil
}

// getFamilyMembers loads a family's members in join order
func (r *FamilyRepository) getFamilyMembers(familyID int64) ([]models.FamilyMember, error) {
	query := `SELECT ` + memberColumns + `
		FROM family_members WHERE family_id = ? ORDER BY id ASC`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.FamilyMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}

	return members, rows.Err()
}

func scanMember(rows *sql.Rows) (*models.FamilyMember, error) {
	member := &models.FamilyMember{}
	var privacy string
	var removedAt sql.NullTime
	if err := rows.Scan(
		&member.ID, &member.FamilyID, &member.UserID, &member.Email,
		&member.DisplayName, &member.Role, &member.Status, &privacy,
		&member.InvitedAt, &member.JoinedAt, &removedAt, &member.InvitedBy,
	); err != nil {
		return nil, fmt.Errorf("failed to scan family member: %w", err)
	}

	if err := json.Unmarshal([]byte(privacy), &member.Privacy); err != nil {
		return nil, fmt.Errorf("failed to decode privacy settings: %w", err)
	}
	if removedAt.Valid {
		t := removedAt.Time
		member.RemovedAt = &t
	}

	return member, nil
}

// GetFamilyByOwner retrieves the family a user owns, or nil
func (r *FamilyRepository) GetFamilyByOwner(userID string) (*models.Family, error) {
	var familyID int64
	err := r.db.QueryRow("SELECT id FROM families WHERE owner_id = ?", userID).Scan(&familyID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up owned family: %w", err)
	}
	return r.GetFamilyByID(familyID)
}

// GetUserFamily resolves the family a user belongs to: the family they own
// first, otherwise any family with an active membership. Nil when neither
func (r *FamilyRepository) GetUserFamily(userID string) (*models.Family, error) {
	family, err := r.GetFamilyByOwner(userID)
	if err != nil || family != nil {
		return family, err
	}

	var familyID int64
	query := `SELECT family_id FROM family_members
		WHERE user_id = ? AND status = ? ORDER BY id ASC LIMIT 1`
	err = r.db.QueryRow(query, userID, models.MemberActive).Scan(&familyID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up family membership: %w", err)
	}
	return r.GetFamilyByID(familyID)
}

// UpdateFamilyInfo updates the editable family fields and bumps updated_at
func (r *FamilyRepository) UpdateFamilyInfo(familyID int64, name, description, icon string, settings models.FamilySettings, now time.Time) error {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `UPDATE families SET name = ?, description = ?, icon = ?, settings = ?,
		updated_at = ? WHERE id = ?`
	_, err = r.db.Exec(query, name, description, icon, string(encoded), now, familyID)
	if err != nil {
		return fmt.Errorf("failed to update family: %w", err)
	}
	return nil
}

// DeleteFamily deletes a family and cascades over its invites, activity log
// and members
func (r *FamilyRepository) DeleteFamily(familyID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		"DELETE FROM family_invites WHERE family_id = ?",
		"DELETE FROM family_activity WHERE family_id = ?",
		"DELETE FROM family_members WHERE family_id = ?",
		"DELETE FROM families WHERE id = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt, familyID); err != nil {
			return fmt.Errorf("failed to delete family: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetMemberRemoved soft-deletes a member. Scoped by member id and current
// status so a lost race is a no-op, not an error
func (r *FamilyRepository) SetMemberRemoved(familyID int64, memberID string, now time.Time) error {
	query := `UPDATE family_members SET status = ?, removed_at = ?
		WHERE family_id = ? AND member_id = ? AND status = ?`
	_, err := r.db.Exec(query, models.MemberRemoved, now, familyID, memberID, models.MemberActive)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return r.touchFamily(familyID, now)
}

// SetMemberRole updates an active member's role
func (r *FamilyRepository) SetMemberRole(familyID int64, memberID string, role models.Role, now time.Time) error {
	query := `UPDATE family_members SET role = ?
		WHERE family_id = ? AND member_id = ? AND status = ?`
	_, err := r.db.Exec(query, role, familyID, memberID, models.MemberActive)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	return r.touchFamily(familyID, now)
}

// SetMemberPrivacy replaces a member's privacy settings wholesale
func (r *FamilyRepository) SetMemberPrivacy(familyID int64, memberID string, privacy models.MemberPrivacySettings, now time.Time) error {
	encoded, err := json.Marshal(privacy)
	if err != nil {
		return fmt.Errorf("failed to encode privacy settings: %w", err)
	}

	query := `UPDATE family_members SET privacy_settings = ?
		WHERE family_id = ? AND member_id = ?`
	_, err = r.db.Exec(query, string(encoded), familyID, memberID)
	if err != nil {
		return fmt.Errorf("failed to update member sharing: %w", err)
	}
	return r.touchFamily(familyID, now)
}

func (r *FamilyRepository) touchFamily(familyID int64, now time.Time) error {
	_, err := r.db.Exec("UPDATE families SET updated_at = ? WHERE id = ?", now, familyID)
	if err != nil {
		return fmt.Errorf("failed to touch family: %w", err)
	}
	return nil
}
