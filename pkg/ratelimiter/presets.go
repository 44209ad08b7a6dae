package ratelimiter

import "time"

// Preset names a pre-defined limit/window pair for a common endpoint
// class. The preset name doubles as the limiter name in the Registry.
type Preset string

const (
	PresetAPI           Preset = "api"
	PresetSearch        Preset = "search"
	PresetLogin         Preset = "login"
	PresetPasswordReset Preset = "passwordReset"
	PresetUpload        Preset = "upload"
)

// presetConfigs is the fixed, read-only catalog. The values are part of
// the external contract; operators and tests depend on them, so they
// must not drift.
var presetConfigs = map[Preset]Config{
	PresetAPI:           {Limit: 60, Window: time.Minute},
	PresetSearch:        {Limit: 30, Window: time.Minute},
	PresetLogin:         {Limit: 5, Window: 15 * time.Minute},
	PresetPasswordReset: {Limit: 3, Window: time.Hour},
	PresetUpload:        {Limit: 10, Window: time.Minute},
}

// PresetConfig resolves the catalog entry for p.
func PresetConfig(p Preset) (Config, bool) {
	cfg, ok := presetConfigs[p]
	return cfg, ok
}
