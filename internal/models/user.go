package models

import (
	"database/sql"
	"time"
)

// User is the stored form of a staff account.
type User struct {
	UserID       string       `db:"user_id"`
	Username     string       `db:"username"`
	PasswordHash string       `db:"password_hash"`
	Role         string       `db:"role"`
	CreatedAt    time.Time    `db:"created_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}
