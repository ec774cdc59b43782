package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
)

// settingsService layers stored office settings over configured defaults.
type settingsService struct {
	BaseService
	repo     portsrepo.SettingsRepositoryFacade
	defaults domain.OfficeSettings
	tagline  string
	subtitle string
}

// NewSettingsService creates the settings service. tagline and subtitle are
// fixed by configuration; defaults fill any setting never stored.
func NewSettingsService(repo portsrepo.SettingsRepositoryFacade, defaults domain.OfficeSettings, tagline, subtitle string) portssvc.SettingsSvcFacade {
	return &settingsService{
		repo:     repo,
		defaults: defaults,
		tagline:  tagline,
		subtitle: subtitle,
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

func (s *settingsService) GetSettings(ctx context.Context) (domain.OfficeSettings, error) {
	values, err := s.repo.GetSettings(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load settings")
		return domain.OfficeSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return domain.OfficeSettingsFromMap(values).WithDefaults(s.defaults), nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, settings domain.OfficeSettings, actingUserID string) (domain.OfficeSettings, error) {
	if err := s.repo.SaveSettings(ctx, settings.ToMap(), actingUserID); err != nil {
		s.LogError(ctx, err, "Failed to save settings", slog.String("user_id", actingUserID))
		return domain.OfficeSettings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	s.LogInfo(ctx, "Office settings updated", slog.String("user_id", actingUserID))
	return settings.WithDefaults(s.defaults), nil
}

func (s *settingsService) GetOfficeInfo(ctx context.Context) (domain.OfficeInfo, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return domain.OfficeInfo{}, err
	}
	return domain.OfficeInfo{
		Tagline:  s.tagline,
		Name:     settings.OfficeName,
		Subtitle: s.subtitle,
		Address:  settings.Address,
		Phone:    settings.Phone,
	}, nil
}
