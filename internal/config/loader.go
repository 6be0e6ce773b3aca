package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".sizescope"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for sizescope settings.
const envPrefix = "SIZESCOPE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Load reads configuration from file, env vars, and defaults. A non-empty
// configPath is used as the explicit config file; otherwise the file is
// searched in CWD and $HOME. A missing config file is not an error.
func Load(configPath string, requireSource bool) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate(requireSource)
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("data.base_url", "")
	viperCfg.SetDefault("data.dir", "")
	viperCfg.SetDefault("data.cache_size", DefaultCacheSize)

	viperCfg.SetDefault("compare.metric", DefaultMetric)
	viperCfg.SetDefault("compare.threshold", DefaultThreshold)
	viperCfg.SetDefault("compare.table_rows", DefaultTableRows)

	viperCfg.SetDefault("flow.max_nodes", DefaultMaxNodes)
	viperCfg.SetDefault("flow.min_size", DefaultMinSize)

	viperCfg.SetDefault("serve.listen", DefaultListen)
	viperCfg.SetDefault("serve.theme", DefaultTheme)

	viperCfg.SetDefault("sections.exclude_debug", false)
	viperCfg.SetDefault("sections.platform_prefix", DefaultPlatformPrefix)
	viperCfg.SetDefault("sections.debug_sections", DefaultDebugSections)
}
