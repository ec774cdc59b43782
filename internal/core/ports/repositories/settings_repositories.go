package repositories

import "context"

// SettingsRepositoryFacade stores office settings as key-value pairs.
type SettingsRepositoryFacade interface {
	// GetSettings returns every stored key and its value.
	GetSettings(ctx context.Context) (map[string]string, error)

	// SaveSettings upserts all values in one transaction.
	SaveSettings(ctx context.Context, values map[string]string, updatedBy string) error
}
