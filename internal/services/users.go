package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"senidea-backend-go/internal/models"
)

func ValidRole(role string) bool {
	for _, candidate := range models.ValidRoles {
		if candidate == role {
			return true
		}
	}
	return false
}

func FindUserByEmail(db *sqlx.DB, email string) (*models.User, error) {
	user := models.User{}
	err := db.Get(&user, `SELECT id, email, password_hash, role, created_at FROM users WHERE lower(email) = $1`, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *sqlx.DB, id int64) (*models.User, error) {
	user := models.User{}
	err := db.Get(&user, `SELECT id, email, password_hash, role, created_at FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func EmailTaken(db *sqlx.DB, email string) (bool, error) {
	var exists bool
	err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1)`, strings.ToLower(strings.TrimSpace(email)))
	return exists, err
}
