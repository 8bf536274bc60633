package service

import "github.com/Advansoftware/FinWise-sub002/internal/models"

// UserDirectory is the identity and plan gateway. Both lookups return nil
// (without error) for unknown users
type UserDirectory interface {
	GetUserByID(userID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
}
