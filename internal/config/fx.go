package config

import "go.uber.org/fx"

var Module = fx.Module("config",
	fx.Provide(
		Load,
		provideSettings,
	),
)

func provideSettings(cfg Config) (Settings, error) {
	return LoadSettings(cfg.SettingsFile)
}
