package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Advansoftware/FinWise-sub002/internal/database"
	"github.com/Advansoftware/FinWise-sub002/internal/models"
)

// UserRepository reads identity records from the shared users table. The
// account directory itself is owned by the auth service; this repository is
// its read-only view
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByID retrieves a user by id, or nil
func (r *UserRepository) GetUserByID(userID string) (*models.User, error) {
	query := `SELECT id, email, display_name, plan, created_at FROM users WHERE id = ?`
	return r.queryUser(query, userID)
}

// GetUserByEmail retrieves a user by email, case-insensitively, or nil
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT id, email, display_name, plan, created_at FROM users WHERE email = ?`
	return r.queryUser(query, strings.ToLower(email))
}

func (r *UserRepository) queryUser(query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(query, args...).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.Plan, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
