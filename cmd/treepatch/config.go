package main

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xyzhub/treepatch"
)

// EnvPrefix prefixes environment variables that set flags, TREEPATCH_IGNORE
// for --ignore
const EnvPrefix = "TREEPATCH"

type config struct {
	LogLevel     string                       `mapstructure:"log-level"`
	Ignore       []string                     `mapstructure:"ignore"`
	Output       string                       `mapstructure:"output"`
	Color        bool                         `mapstructure:"color"`
	Stats        bool                         `mapstructure:"stats"`
	Resolution   treepatch.ConflictResolution `mapstructure:"resolution"`
	Recursive    bool                         `mapstructure:"recursive"`
	StripRemoves bool                         `mapstructure:"strip-removes"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads flags & environment of cmd into a config
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	cfg := &config{}
	decoderConfig := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
	if err := v.Unmarshal(cfg, decoderConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func (cfg *config) logger(cmd *cobra.Command) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	if cfg.LogLevel == "" {
		return log, nil
	}
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	return log, nil
}

func (cfg *config) diffOptions() []treepatch.DiffOption {
	if len(cfg.Ignore) == 0 {
		return nil
	}
	return []treepatch.DiffOption{treepatch.OptionIgnoreKeys(cfg.Ignore...)}
}
