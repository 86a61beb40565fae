package widget

import (
	"context"

	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/logging"
	"github.com/bnema/nexus/internal/storage"
)

// Theme values persisted under entity.ThemeKey.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Settings manages the theme and global app settings payloads.
type Settings struct {
	store *storage.QuotaSafeStore
}

// NewSettings creates the settings widget over store.
func NewSettings(store *storage.QuotaSafeStore) *Settings {
	return &Settings{store: store}
}

// Theme returns the persisted theme, defaulting to dark.
func (s *Settings) Theme(ctx context.Context) string {
	var theme string
	found, err := s.store.Load(entity.ThemeKey, &theme)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to load theme")
		return ThemeDark
	}
	if !found || (theme != ThemeLight && theme != ThemeDark) {
		return ThemeDark
	}
	return theme
}

// SetTheme persists the theme. Unknown values are rejected.
func (s *Settings) SetTheme(ctx context.Context, theme string) bool {
	if theme != ThemeLight && theme != ThemeDark {
		return false
	}
	if err := s.store.Save(entity.ThemeKey, theme); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to save theme")
		return false
	}
	return true
}

// App returns the persisted settings, falling back to the defaults on
// absence or corruption.
func (s *Settings) App(ctx context.Context) entity.AppSettings {
	var settings entity.AppSettings
	found, err := s.store.Load(entity.SettingsKey, &settings)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to load settings")
		return entity.DefaultSettings()
	}
	if !found {
		return entity.DefaultSettings()
	}
	return settings
}

// SetApp persists the settings payload.
func (s *Settings) SetApp(ctx context.Context, settings entity.AppSettings) bool {
	if err := s.store.Save(entity.SettingsKey, settings); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to save settings")
		return false
	}
	return true
}

// Password returns the persisted generator configuration, defaulting
// when absent or malformed.
func (s *Settings) Password(ctx context.Context) entity.PasswordSettings {
	var settings entity.PasswordSettings
	found, err := s.store.Load(entity.PasswordSettingsKey, &settings)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to load password settings")
		return entity.DefaultPasswordSettings()
	}
	if !found {
		return entity.DefaultPasswordSettings()
	}
	if settings.Type != entity.PasswordTypeRandom && settings.Type != entity.PasswordTypePIN {
		return entity.DefaultPasswordSettings()
	}
	return settings
}

// SetPassword persists the generator configuration.
func (s *Settings) SetPassword(ctx context.Context, settings entity.PasswordSettings) bool {
	if err := s.store.Save(entity.PasswordSettingsKey, settings); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to save password settings")
		return false
	}
	return true
}
