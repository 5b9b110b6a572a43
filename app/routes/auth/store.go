package auth

import (
	"database/sql"

	"retail-transfers/app/database"
	"retail-transfers/app/models"
)

// UserStore is the slice of user persistence the auth handlers need.
type UserStore interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserRoles(userID string) ([]*models.Role, error)
	UpdateUserPassword(userID, hashedPassword string) error
}

type SQLUserStore struct {
	DB *sql.DB
}

func (s SQLUserStore) GetUserByEmail(email string) (*models.User, error) {
	return database.GetUserByEmail(s.DB, email)
}

func (s SQLUserStore) GetUserRoles(userID string) ([]*models.Role, error) {
	return database.GetUserRoles(s.DB, userID)
}

func (s SQLUserStore) UpdateUserPassword(userID, hashedPassword string) error {
	return database.UpdateUserPassword(s.DB, userID, hashedPassword)
}
