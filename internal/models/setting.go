package models

import (
	"database/sql"
	"time"
)

// Setting is one key-value row of the settings table.
type Setting struct {
	Key       string         `db:"key"`
	Value     string         `db:"value"`
	UpdatedAt time.Time      `db:"updated_at"`
	UpdatedBy sql.NullString `db:"updated_by"`
}
