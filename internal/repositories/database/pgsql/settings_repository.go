package pgsql

import (
	"context"
	"net/http"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_office_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSettingsRepository keeps office settings in the key-value settings table.
type PgxSettingsRepository struct {
	BaseRepository
}

func newPgxSettingsRepository(pool *pgxpool.Pool) portsrepo.SettingsRepositoryFacade {
	return &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) GetSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT key, value, updated_at, updated_by FROM settings;`)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query settings", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt, &s.UpdatedBy); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan setting", err)
		}
		values[s.Key] = s.Value
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating settings", err)
	}
	return values, nil
}

func (r *PgxSettingsRepository) SaveSettings(ctx context.Context, values map[string]string, updatedBy string) error {
	if len(values) == 0 {
		return nil
	}
	var by *string
	if updatedBy != "" {
		by = &updatedBy
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO settings (key, value, updated_at, updated_by)
			VALUES ($1, $2, now(), $3)
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value,
			    updated_at = EXCLUDED.updated_at,
			    updated_by = EXCLUDED.updated_by;
		`
		batch := &pgx.Batch{}
		for key, value := range values {
			batch.Queue(query, key, value, by)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isForeignKeyViolation(err) {
				return errActingUserGone
			}
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to save settings", err)
		}
		return nil
	})
}
