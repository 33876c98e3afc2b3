package policy

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// Environment keys for every overridable threshold.
const (
	KeyInactivityTimeoutFullHours      = "ATTEMPT_INACTIVITY_TIMEOUT_FULL_HOURS"
	KeyInactivityTimeoutDefaultHours   = "ATTEMPT_INACTIVITY_TIMEOUT_DEFAULT_HOURS"
	KeyAbandonThresholdPercent         = "ATTEMPT_ABANDON_THRESHOLD_PERCENT"
	KeyAbandonThresholdInactivityHours = "ATTEMPT_ABANDON_THRESHOLD_INACTIVITY_HOURS"
	KeyPurgeAfterDays                  = "ATTEMPT_PURGE_AFTER_DAYS"
	KeyPurgeLowProgressPercent         = "ATTEMPT_PURGE_LOW_PROGRESS_PERCENT"
	KeyBatchLimit                      = "ATTEMPT_BATCH_LIMIT"
)

// Config holds the abandonment and purge thresholds. It is built once at
// startup and handed to every job by pointer; nothing reads it from globals.
type Config struct {
	InactivityTimeoutFullHours      float64 `json:"inactivity_timeout_full_hours"`
	InactivityTimeoutDefaultHours   float64 `json:"inactivity_timeout_default_hours"`
	AbandonThresholdPercent         float64 `json:"abandon_threshold_percent"`
	AbandonThresholdInactivityHours float64 `json:"abandon_threshold_inactivity_hours"`
	PurgeAfterDays                  float64 `json:"purge_after_days"`
	PurgeLowProgressPercent         float64 `json:"purge_low_progress_percent"`
	BatchLimit                      int     `json:"batch_limit"`
}

// Default returns the built-in thresholds.
func Default() Config {
	return Config{
		InactivityTimeoutFullHours:      4,
		InactivityTimeoutDefaultHours:   24,
		AbandonThresholdPercent:         30,
		AbandonThresholdInactivityHours: 6,
		PurgeAfterDays:                  7,
		PurgeLowProgressPercent:         20,
		BatchLimit:                      250,
	}
}

// LookupFunc returns the raw override for key and whether one is set.
type LookupFunc func(key string) (string, bool)

// New builds a Config from defaults and the overrides returned by lookup.
// Overrides that do not parse, are not finite or are negative are ignored
// with a warning. A nil lookup yields the defaults.
func New(lookup LookupFunc) *Config {
	cfg := Default()
	if lookup == nil {
		return &cfg
	}

	overrideFloat(lookup, KeyInactivityTimeoutFullHours, &cfg.InactivityTimeoutFullHours)
	overrideFloat(lookup, KeyInactivityTimeoutDefaultHours, &cfg.InactivityTimeoutDefaultHours)
	overrideFloat(lookup, KeyAbandonThresholdPercent, &cfg.AbandonThresholdPercent)
	overrideFloat(lookup, KeyAbandonThresholdInactivityHours, &cfg.AbandonThresholdInactivityHours)
	overrideFloat(lookup, KeyPurgeAfterDays, &cfg.PurgeAfterDays)
	overrideFloat(lookup, KeyPurgeLowProgressPercent, &cfg.PurgeLowProgressPercent)

	if raw, ok := lookup(KeyBatchLimit); ok && raw != "" {
		n, err := cast.ToIntE(raw)
		if err != nil || n <= 0 {
			log.Warn().Str("key", KeyBatchLimit).Str("value", raw).Int("default", cfg.BatchLimit).Msg("Ignoring invalid policy override")
		} else {
			cfg.BatchLimit = n
		}
	}

	return &cfg
}

func overrideFloat(lookup LookupFunc, key string, dst *float64) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		log.Warn().Str("key", key).Str("value", raw).Float64("default", *dst).Msg("Ignoring invalid policy override")
		return
	}
	*dst = v
}

// InactivityLimit is the timeout that applies to an attempt of the given mode.
func (c *Config) InactivityLimit(mode string) time.Duration {
	if mode == "full" {
		return hours(c.InactivityTimeoutFullHours)
	}
	return hours(c.InactivityTimeoutDefaultHours)
}

// LowProgressInactivity is how long an attempt must sit idle before the
// low-progress rule is considered.
func (c *Config) LowProgressInactivity() time.Duration {
	return hours(c.AbandonThresholdInactivityHours)
}

// PurgeAge is the minimum age of an abandoned attempt before it may be purged.
func (c *Config) PurgeAge() time.Duration {
	return hours(c.PurgeAfterDays * 24)
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
