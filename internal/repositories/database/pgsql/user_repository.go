package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_office_app/internal/models"
	"github.com/SscSPs/exchange_office_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// firstAdminLockKey serialises concurrent first-admin registrations.
const firstAdminLockKey int64 = 0x45584f46

const userColumns = `user_id, username, password_hash, role, created_at, last_login`

const insertUserQuery = `
	INSERT INTO users (user_id, username, password_hash, role, created_at)
	VALUES ($1, $2, $3, $4, $5);
`

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(&m.UserID, &m.Username, &m.PasswordHash, &m.Role, &m.CreatedAt, &m.LastLogin)
	return m, err
}

func insertUserError(err error, username string) error {
	if isUniqueViolation(err, "") {
		return fmt.Errorf("%w: username %q is already taken", apperrors.ErrDuplicate, username)
	}
	return apperrors.NewAppError(http.StatusInternalServerError, "failed to save user", err)
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := r.Pool.Exec(ctx, insertUserQuery, m.UserID, m.Username, m.PasswordHash, m.Role, m.CreatedAt)
	if err != nil {
		return insertUserError(err, m.Username)
	}
	return nil
}

// SaveFirstAdmin takes a transaction-scoped advisory lock so two concurrent
// registrations cannot both observe an empty users table.
func (r *PgxUserRepository) SaveFirstAdmin(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1);`, firstAdminLockKey); err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to acquire registration lock", err)
		}

		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users;`).Scan(&count); err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to count users", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: an administrator is already registered", apperrors.ErrDuplicate)
		}

		if _, err := tx.Exec(ctx, insertUserQuery, m.UserID, m.Username, m.PasswordHash, m.Role, m.CreatedAt); err != nil {
			return insertUserError(err, m.Username)
		}
		return nil
	})
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1;`, userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1;`, username)
}

func (r *PgxUserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	m, err := scanUser(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find user", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username;`)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query users", err)
	}
	defer rows.Close()

	modelUsers := []models.User{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan user row", err)
		}
		modelUsers = append(modelUsers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating user rows", err)
	}
	return mapping.ToDomainUserSlice(modelUsers), nil
}

func (r *PgxUserRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users;`).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to count users", err)
	}
	return count, nil
}

func (r *PgxUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE user_id = $2;`, at, userID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update last login", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1;`, userID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete user", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}
