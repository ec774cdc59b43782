package services

import (
	"context"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
)

// SettingsSvcFacade manages the editable office details.
type SettingsSvcFacade interface {
	// GetSettings returns the stored settings with configured defaults for unset keys.
	GetSettings(ctx context.Context) (domain.OfficeSettings, error)

	// UpdateSettings stores every field of settings.
	UpdateSettings(ctx context.Context, settings domain.OfficeSettings, actingUserID string) (domain.OfficeSettings, error)

	// GetOfficeInfo returns the invoice header block.
	GetOfficeInfo(ctx context.Context) (domain.OfficeInfo, error)
}
