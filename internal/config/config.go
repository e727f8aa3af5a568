package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Mask     MaskConfig   `mapstructure:"mask"`
	Server   ServerConfig `mapstructure:"server"`
	LogLevel string       `mapstructure:"log_level"`
}

type MaskConfig struct {
	Keywords         string `mapstructure:"keywords"`
	WindowSize       int    `mapstructure:"window_size"`
	ReplacementValue string `mapstructure:"replacement_value"`
	ValueKind        string `mapstructure:"value_kind"`
	FakerLocale      string `mapstructure:"faker_locale"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	Workers         int    `mapstructure:"workers"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Mask: MaskConfig{
			Keywords:         "",
			WindowSize:       5,
			ReplacementValue: "",
			ValueKind:        KindFloat,
			FakerLocale:      "en_US",
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         2,
			ShutdownTimeout: 30,
			RequestTimeout:  60,
			MaxTextBytes:    1 << 20,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("keywords", defaults.Mask.Keywords, "Comma-separated keywords that mark nearby numbers as sensitive")
	fs.Int("window-size", defaults.Mask.WindowSize, "Max word distance between a keyword and a number")
	fs.String("replacement-value", defaults.Mask.ReplacementValue, "Fixed replacement value (random values when empty)")
	fs.String("value-kind", defaults.Mask.ValueKind, "Kind of random replacement value (float|int|price)")
	fs.String("faker-locale", defaults.Mask.FakerLocale, "Locale tag used to format random values")
	fs.String("listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("workers", defaults.Server.Workers, "Max concurrent mask requests")
	fs.Int("shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.Int("request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.Int("max-text-bytes", defaults.Server.MaxTextBytes, "Max request text size in bytes")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("NUMVEIL")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("mask.keywords", "NUMVEIL_KEYWORDS"); err != nil {
		return Config{}, fmt.Errorf("bind keyword env var: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("numveil")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("mask.keywords", c.Mask.Keywords)
	v.SetDefault("mask.window_size", c.Mask.WindowSize)
	v.SetDefault("mask.replacement_value", c.Mask.ReplacementValue)
	v.SetDefault("mask.value_kind", c.Mask.ValueKind)
	v.SetDefault("mask.faker_locale", c.Mask.FakerLocale)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("log_level", c.LogLevel)
}

// flagKeys maps each flag from RegisterFlags to the config key it feeds.
// Flags bind directly to the nested keys, so flag, env, file, and default
// values all layer on the same key.
var flagKeys = []struct {
	flag string
	key  string
}{
	{"keywords", "mask.keywords"},
	{"window-size", "mask.window_size"},
	{"replacement-value", "mask.replacement_value"},
	{"value-kind", "mask.value_kind"},
	{"faker-locale", "mask.faker_locale"},
	{"listen-addr", "server.listen_addr"},
	{"workers", "server.workers"},
	{"shutdown-timeout", "server.shutdown_timeout"},
	{"request-timeout", "server.request_timeout"},
	{"max-text-bytes", "server.max_text_bytes"},
	{"log-level", "log_level"},
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return err
		}
	}
	return nil
}
