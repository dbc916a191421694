// Package config loads codequiz settings from defaults, an optional YAML
// file, CODEQUIZ_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/phobologic/codequiz/internal/discover"
)

// Keys shared with the command-line flags.
const (
	KeyRoot      = "root"
	KeyExclude   = "exclude"
	KeyGlob      = "glob"
	KeyGitignore = "gitignore"
	KeySeed      = "seed"
)

const envPrefix = "CODEQUIZ"

// DefaultExclude are the path fragments skipped unless configured otherwise.
var DefaultExclude = []string{"tests", "scripts"}

// Config is the resolved configuration of a run.
type Config struct {
	Root      string
	Exclude   []string
	Globs     []string
	Gitignore bool
	// Seed for entity selection; 0 picks a random seed.
	Seed uint64
	// File is the config file that was read, if any.
	File string
}

// New returns a viper instance with defaults and environment bindings set.
// If file is non-empty it must exist; otherwise .codequiz.yaml is looked up
// in the working directory and then the home directory.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyRoot, ".")
	v.SetDefault(KeyExclude, DefaultExclude)
	v.SetDefault(KeyGlob, []string{})
	v.SetDefault(KeyGitignore, true)
	v.SetDefault(KeySeed, 0)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".codequiz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// FromViper resolves and validates the configuration held by v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Root:      v.GetString(KeyRoot),
		Exclude:   nonEmpty(v.GetStringSlice(KeyExclude)),
		Globs:     nonEmpty(v.GetStringSlice(KeyGlob)),
		Gitignore: v.GetBool(KeyGitignore),
		Seed:      v.GetUint64(KeySeed),
		File:      v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return Config{}, fmt.Errorf("resolving root: %w", err)
	}
	cfg.Root = root
	return cfg, nil
}

// Validate checks that the corpus root is an existing directory.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.New("root must not be empty")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", c.Root)
	}
	return nil
}

// Discover returns the walk options for the configuration.
func (c Config) Discover() discover.Options {
	return discover.Options{
		Exclude:   c.Exclude,
		Globs:     c.Globs,
		Gitignore: c.Gitignore,
	}
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
