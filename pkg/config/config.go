// Package config loads the tuning knobs a qrsdetect deployment can
// override from a YAML file, the way tocalls.yaml drives device-ID
// lookups in the teacher codebase: almost everything here has a
// sensible zero value, and callers are expected to start from Default
// and layer a file over it, not build a Config from scratch.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doismellburning/qrsdetect/pkg/detector"
)

// Config is the set of knobs a deployment is allowed to change without
// touching Go source. Everything that affects the detection algorithm
// itself -- the filter taps, the adaptive-threshold fractions, the
// clamp values -- is deliberately absent: those are the specification,
// not a tuning parameter, and live as unexported constants in
// pkg/detector.
type Config struct {
	// SampleRate must equal detector.SamplesPerSecond unless
	// AllowNonstandardSampleRate is set. The detector's time-window
	// constants (blank time, T-wave window, learning duration) are
	// all expressed in samples at 200Hz; feeding it a stream sampled
	// at any other rate silently retunes every one of those windows.
	SampleRate int `yaml:"sample_rate"`

	// AllowNonstandardSampleRate opts out of the SampleRate check.
	// Set this only if you understand that the detector's timing
	// windows will no longer correspond to the wall-clock durations
	// named in its documentation.
	AllowNonstandardSampleRate bool `yaml:"allow_nonstandard_sample_rate"`

	// Verbosity selects how much per-sample detail a sink logs: 0 is
	// beats only, 1 additionally logs every filter stage (mirrors the
	// -v flag of cmd/qrsdetect).
	Verbosity int `yaml:"verbosity"`

	// CSVOutput is the default path for cmd/qrsdetect's -o flag when
	// the flag itself is not given. Empty disables CSV output.
	CSVOutput string `yaml:"csv_output"`

	// Discover selects the mDNS/DNS-SD advertisement of pkg/session
	// (service type _qrsdetect._tcp). It is parsed but not read by
	// either command; cmd/qrsmonitor takes its --discover flag instead.
	Discover bool `yaml:"discover"`

	// Site is an optional fixed capture location, range-checked by
	// Validate. Neither command reads it or passes it to pkg/session.
	Site *SiteConfig `yaml:"site,omitempty"`
}

// SiteConfig is a capture location in decimal degrees.
type SiteConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// Default returns the configuration a bare cmd/qrsdetect invocation
// runs with before any file or flag is applied.
func Default() Config {
	return Config{
		SampleRate: detector.SamplesPerSecond,
		Verbosity:  0,
	}
}

// Load reads a YAML file and applies it on top of Default. A missing
// file is not an error -- Load returns Default unchanged -- so a
// deployment with no config file at all still runs.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects configurations the detector cannot honor safely.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}

	if c.SampleRate != detector.SamplesPerSecond && !c.AllowNonstandardSampleRate {
		return fmt.Errorf(
			"sample_rate %d does not match the detector's %dHz timing constants; "+
				"set allow_nonstandard_sample_rate to proceed anyway",
			c.SampleRate, detector.SamplesPerSecond,
		)
	}

	if c.Verbosity < 0 || c.Verbosity > 1 {
		return fmt.Errorf("verbosity must be 0 or 1, got %d", c.Verbosity)
	}

	if c.Site != nil {
		if c.Site.Latitude < -90 || c.Site.Latitude > 90 {
			return fmt.Errorf("site.latitude %f out of range [-90,90]", c.Site.Latitude)
		}

		if c.Site.Longitude < -180 || c.Site.Longitude > 180 {
			return fmt.Errorf("site.longitude %f out of range [-180,180]", c.Site.Longitude)
		}
	}

	return nil
}
