// Package config defines the scavenger's on-disk configuration shape and
// loads it the way the teacher loads its own: TOML on disk, Viper for
// environment and flag overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// FlaggerConfig describes one entry in Config.Flaggers: a kind known to the
// flag.Registry, a display name, and free-form parameters (e.g. "keywords"
// for a keyword flagger).
type FlaggerConfig struct {
	Kind   string            `toml:"kind"`
	Name   string            `toml:"name"`
	Params map[string]string `toml:"params"`
}

// Config is the scavenger's full configuration, as read from config.toml
// and overridable via CLI flags and environment variables bound through
// Viper in cmd/scavenger-cli.
type Config struct {
	// Source settings.
	GalleryBaseURL string `toml:"gallerybaseurl" mapstructure:"gallerybaseurl"`
	SeedID         string `toml:"seedid" mapstructure:"seedid"`
	SourceSelector string `toml:"sourceselector" mapstructure:"sourceselector"`
	SourceAttr     string `toml:"sourceattr" mapstructure:"sourceattr"`
	UserAgent      string `toml:"useragent" mapstructure:"useragent"`

	// Downloader batching.
	Workers          int `toml:"workers" mapstructure:"workers"`
	LowWaterMark     int `toml:"lowwatermark" mapstructure:"lowwatermark"`
	BatchSize        int `toml:"batchsize" mapstructure:"batchsize"`
	FailureThreshold int `toml:"failurethreshold" mapstructure:"failurethreshold"`

	// Pipeline queue capacities.
	ImageQueueCapacity  int `toml:"imagequeuecapacity" mapstructure:"imagequeuecapacity"`
	ResultQueueCapacity int `toml:"resultqueuecapacity" mapstructure:"resultqueuecapacity"`

	// Feature toggles.
	OCREnabled     bool `toml:"ocrenabled" mapstructure:"ocrenabled"`
	HuntingEnabled bool `toml:"huntingenabled" mapstructure:"huntingenabled"`
	EmitPerFlagger bool `toml:"emitperflagger" mapstructure:"emitperflagger"`
	Dedupe         bool `toml:"dedupe" mapstructure:"dedupe"`

	// Output locations.
	SavePath     string `toml:"savepath" mapstructure:"savepath"`
	CSVPath      string `toml:"csvpath" mapstructure:"csvpath"`
	IndexPath    string `toml:"indexpath" mapstructure:"indexpath"`
	DedupePath   string `toml:"dedupepath" mapstructure:"dedupepath"`
	OCRLanguages string `toml:"ocrlanguages" mapstructure:"ocrlanguages"`

	Flaggers []FlaggerConfig `toml:"flaggers" mapstructure:"flaggers"`
}

// Defaults returns a Config populated with the scavenger's baked-in
// defaults, applied before a config file or flags are considered.
func Defaults() Config {
	return Config{
		GalleryBaseURL:      "https://screenshots.example",
		SourceSelector:      "img#screenshot-image",
		SourceAttr:          "src",
		Workers:             2,
		LowWaterMark:        8,
		BatchSize:           4,
		FailureThreshold:    5,
		ImageQueueCapacity:  16,
		ResultQueueCapacity: 16,
		OCREnabled:          true,
		HuntingEnabled:      true,
		Dedupe:              true,
		SavePath:            "./results",
		CSVPath:             "./results/results.csv",
		IndexPath:           "./results/scavenger.bleve",
		DedupePath:          "./results/dedupe.bitcask",
		OCRLanguages:        "eng",
	}
}

// Load reads configFilePath (TOML) on top of Defaults(). A missing file is
// not an error: the caller proceeds with defaults and whatever Viper flag
// bindings layer on top of the returned struct.
func Load(configFilePath string) (Config, error) {
	cfg := Defaults()
	if configFilePath == "" {
		configFilePath = "config.toml"
	}

	if _, err := toml.DecodeFile(configFilePath, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.WithField("path", configFilePath).Warn("config: no config file found, using defaults")
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: loading %s: %w", configFilePath, err)
	}

	if cfg.SavePath == "" {
		log.Warn("config: savepath is not set, results will not be persisted to disk")
	}

	log.WithField("path", configFilePath).Info("configuration loaded")
	return cfg, nil
}
