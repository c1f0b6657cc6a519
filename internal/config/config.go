// Package config resolves the compiler's file locations and batch policy
// from routegen.yaml, environment overrides, and defaults.
package config

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config describes where specs live, where generated modules go, and how the
// batch reacts to a failing spec.
type Config struct {
	// SpecsDir is scanned for *.json route spec documents.
	SpecsDir string `mapstructure:"specs_dir"`
	// OutputDir is the root under which generated modules are written.
	OutputDir string `mapstructure:"output_dir"`
	// IndexFile is the aggregator file that wires route modules together.
	IndexFile string `mapstructure:"index_file"`
	// DBPath locates the application db module the generated code imports
	// findOne / findOneById from.
	DBPath string `mapstructure:"db_path"`
	// ContinueOnError switches generate from fail-fast to collect-and-report.
	ContinueOnError bool `mapstructure:"continue_on_error"`
	Verbose         bool `mapstructure:"verbose"`
}

// Load reads the config file (routegen.yaml in the working directory unless
// an explicit path is given) with ROUTEGEN_* environment overrides. A missing
// default config file is not an error.
func Load(file string) (Config, error) {
	v := viper.New()
	v.SetDefault("specs_dir", "specs")
	v.SetDefault("output_dir", filepath.Join("src", "routes", "gen"))
	v.SetDefault("index_file", filepath.Join("src", "index.ts"))
	v.SetDefault("db_path", filepath.Join("src", "db"))
	v.SetDefault("continue_on_error", false)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("ROUTEGEN")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("routegen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "reading config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	return cfg, nil
}
