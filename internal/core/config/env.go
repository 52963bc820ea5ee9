package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: STYLEPASS_[SECTION]_[KEY] (e.g., STYLEPASS_RUN_WORKERS). NODE_ENV=production
// also marks the build as production.
func ApplyEnvOverrides(cfg *Config) {
	// Plugin
	setEnvBoolPtr(&cfg.Plugin.Sourcemap, "STYLEPASS_PLUGIN_SOURCEMAP")
	setEnvBoolPtr(&cfg.Plugin.AutoLabel, "STYLEPASS_PLUGIN_AUTO_LABEL")
	setEnvString(&cfg.Plugin.LabelFormat, "STYLEPASS_PLUGIN_LABEL_FORMAT")
	setEnvBoolPtr(&cfg.Plugin.AutoInject, "STYLEPASS_PLUGIN_AUTO_INJECT")
	setEnvBoolPtr(&cfg.Plugin.TargetInjection, "STYLEPASS_PLUGIN_TARGET_INJECTION")
	setEnvString(&cfg.Plugin.JSXFactory, "STYLEPASS_PLUGIN_JSX_FACTORY")
	setEnvString(&cfg.Plugin.JSXImportSourceName, "STYLEPASS_PLUGIN_JSX_IMPORT_SOURCE_NAME")

	// Compiler
	setEnvString(&cfg.Compiler.JSXFactory, "STYLEPASS_COMPILER_JSX_FACTORY")
	setEnvBool(&cfg.Compiler.AllowSyntheticDefaultImports, "STYLEPASS_COMPILER_ALLOW_SYNTHETIC_DEFAULT_IMPORTS")
	setEnvBool(&cfg.Compiler.Production, "STYLEPASS_COMPILER_PRODUCTION")
	if strings.EqualFold(strings.TrimSpace(os.Getenv("NODE_ENV")), "production") {
		cfg.Compiler.Production = true
	}

	// Run
	setEnvString(&cfg.Run.Root, "STYLEPASS_RUN_ROOT")
	setEnvString(&cfg.Run.OutDir, "STYLEPASS_RUN_OUT_DIR")
	setEnvBool(&cfg.Run.InPlace, "STYLEPASS_RUN_IN_PLACE")
	setEnvInt(&cfg.Run.Workers, "STYLEPASS_RUN_WORKERS")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "STYLEPASS_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRebuildsPerSecond, "STYLEPASS_WATCH_MAX_REBUILDS_PER_SECOND")

	// History
	setEnvBool(&cfg.History.Enabled, "STYLEPASS_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "STYLEPASS_HISTORY_PATH")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddress, "STYLEPASS_OBSERVABILITY_METRICS_ADDRESS")
	setEnvString(&cfg.Observability.OTLPEndpoint, "STYLEPASS_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvBoolPtr(target **bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = &b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
