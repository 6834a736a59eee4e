package clock

import (
	"fmt"
	"time"

	"quotedesk/internal/config"

	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(provideClock),
)

// provideClock reports time in QUOTEDESK_TZ.
func provideClock(cfg config.Config) (Clock, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}
	return NewSystemClock(loc), nil
}
