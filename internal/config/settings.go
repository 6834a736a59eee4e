package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Settings are the business rules an office may tune without a rebuild.
type Settings struct {
	Issuers           []string  `mapstructure:"issuers" validate:"min=1,dive,required"`
	FeeKeywords       []string  `mapstructure:"fee_keywords"`
	FeePercentages    []float64 `mapstructure:"fee_percentages" validate:"dive,gt=0,lte=100"`
	TaxRate           float64   `mapstructure:"tax_rate" validate:"gte=0,lte=1"`
	DefaultDepartment string    `mapstructure:"default_department"`
}

func DefaultSettings() Settings {
	return Settings{
		Issuers:        []string{"須藤 竜平", "本間 清昭", "片岡 啓明", "青山 泰", "中角 明子"},
		FeeKeywords:    []string{"管理費", "手数料", "事務手数料", "システム利用料", "処理手数料"},
		FeePercentages: []float64{5, 10, 15, 20, 25, 30},
		TaxRate:        0.10,
	}
}

// LoadSettings reads quotedesk.yml. An explicit path must exist; otherwise the
// usual locations are searched and defaults apply when nothing is found.
// QUOTEDESK_* environment variables override individual keys.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quotedesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/quotedesk")
		v.AddConfigPath("/etc/quotedesk")
	}

	v.SetEnvPrefix("QUOTEDESK")
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("issuers", defaults.Issuers)
	v.SetDefault("fee_keywords", defaults.FeeKeywords)
	v.SetDefault("fee_percentages", defaults.FeePercentages)
	v.SetDefault("tax_rate", defaults.TaxRate)
	v.SetDefault("default_department", defaults.DefaultDepartment)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := validator.New().Struct(s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// DefaultIssuer is the roster entry used when an estimate names none or an
// unknown one.
func (s Settings) DefaultIssuer() string {
	if len(s.Issuers) == 0 {
		return ""
	}
	return s.Issuers[0]
}

func (s Settings) IsIssuer(name string) bool {
	for _, i := range s.Issuers {
		if i == name {
			return true
		}
	}
	return false
}
