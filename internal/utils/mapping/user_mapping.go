package mapping

import (
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/models"
)

// ToModelUser maps an account onto its users row.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         string(d.Role),
		CreatedAt:    d.CreatedAt,
		LastLogin:    toNullTime(d.LastLogin),
	}
}

// ToDomainUser maps a users row back to an account. LastLogin stays nil until the first login.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		CreatedAt:    m.CreatedAt,
		LastLogin:    fromNullTime(m.LastLogin),
	}
}

func ToDomainUserSlice(rows []models.User) []domain.User {
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, ToDomainUser(row))
	}
	return users
}
