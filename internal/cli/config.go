package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/pipeline"
)

// Config is the user configuration read from config.toml. Command-line
// flags override it.
type Config struct {
	Parse  ParseConfig  `toml:"parse"`
	Render RenderConfig `toml:"render"`
	Watch  WatchConfig  `toml:"watch"`
}

// ParseConfig controls document loading.
type ParseConfig struct {
	AllowMerge    bool `toml:"allow_merge"`
	SkipCommented bool `toml:"skip_commented"`
}

// RenderConfig controls artifact rendering.
type RenderConfig struct {
	Detailed bool    `toml:"detailed"`
	Format   string  `toml:"format"` // comma-separated
	Scale    float64 `toml:"scale"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `toml:"debounce"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Parse:  ParseConfig{AllowMerge: true, SkipCommented: true},
		Render: RenderConfig{Format: pipeline.FormatSVG, Scale: pipeline.DefaultScale},
		Watch:  WatchConfig{Debounce: 100 * time.Millisecond},
	}
}

// loadConfig reads path over the defaults. A missing file yields the
// defaults; keys the file sets but Config does not know are returned so
// the caller can warn about them.
func loadConfig(path string) (Config, []string, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return DefaultConfig(), nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultConfig().Watch.Debounce
	}
	if cfg.Render.Scale <= 0 {
		cfg.Render.Scale = pipeline.DefaultScale
	}
	return cfg, unknown, nil
}

// configPath returns the config file location using the XDG standard
// (~/.config/knowtree/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
