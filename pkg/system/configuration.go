// Package system wires the rendering core's pieces — PrefsStore,
// RenderQueue, BitmapCache, RenderWorker, and per-document
// DisplayModels — into the single RenderSystem a host application
// embeds, and loads the tunables that govern them (spec.md §9 design
// notes). Grounded on pdfcpu's model.Configuration/EnsureDefaultConfigAt
// (config.yml next to a loaded-once package-level default).
package system

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/go-pdfview/viewer/pkg/render"
	"github.com/go-pdfview/viewer/pkg/viewmode"
)

// configFileBytes is the default dev-config overlay template, embedded
// the same way pdfcpu embeds its resources/config.yml: written out to
// disk on first run rather than parsed directly into DefaultConfiguration
// (which stays a hardcoded struct literal, "kept in sync" with this file
// by hand, exactly as pdfcpu's newDefaultConfiguration does with its own
// config.yml).
//
//go:embed resources/pdfview.dev.yaml
var configFileBytes []byte

// Configuration bundles the tunables spec.md assigns fixed constants;
// LoadConfiguration applies an optional dev-config overlay to them.
// RenderSystem keeps the value as its Config field but does not act on
// it: the cache and queue always use render.MaxEntries and
// render.MaxRequests, and no other field is read elsewhere in this module.
type Configuration struct {
	ZoomMin, ZoomMax float64
	Padding          viewmode.Padding
	MaxEntries       int
	MaxRequests      int

	// DebugServerAddr, if non-empty, is the loopback address
	// pkg/debugserver listens on.
	DebugServerAddr string
}

// DefaultConfiguration returns the constants named in spec.md §4.4,
// §4.5, §6.
func DefaultConfiguration() Configuration {
	return Configuration{
		ZoomMin:     viewmode.ZoomMin,
		ZoomMax:     viewmode.ZoomMax,
		Padding:     viewmode.DefaultPadding(),
		MaxEntries:  render.MaxEntries,
		MaxRequests: render.MaxRequests,
	}
}

// devOverlay is the optional YAML sibling file letting a developer
// build override tunables without touching the bencoded PrefsStore
// blob, expressed in YAML since that's already an in-tree config-file
// library.
type devOverlay struct {
	MaxEntries      *int     `yaml:"max_entries"`
	MaxRequests     *int     `yaml:"max_requests"`
	DebugServerAddr *string  `yaml:"debug_server_addr"`
	ZoomMin         *float64 `yaml:"zoom_min"`
	ZoomMax         *float64 `yaml:"zoom_max"`
}

// EnsureDefaultConfigAt writes the embedded default dev-config overlay to
// path if it doesn't already exist (or override is true), mirroring
// pdfcpu's EnsureDefaultConfigAt/ensureConfigFileAt. It gives a developer
// a file to look at and edit instead of having to know every
// Configuration field by name.
func EnsureDefaultConfigAt(path string, override bool) error {
	if !override {
		if _, err := os.Stat(path); err == nil {
			return nil
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "system: stat config %s", path)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "system: create config dir %s", dir)
		}
	}
	if err := os.WriteFile(path, configFileBytes, 0o644); err != nil {
		return errors.Wrapf(err, "system: write config %s", path)
	}
	return nil
}

// LoadConfiguration returns DefaultConfiguration with any dev overlay
// at path applied. A missing file is not an error; a malformed one is.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "system: read config %s", path)
	}

	var ov devOverlay
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return cfg, errors.Wrapf(err, "system: parse config %s", path)
	}
	applyOverlay(&cfg, ov)
	return cfg, nil
}

func applyOverlay(cfg *Configuration, ov devOverlay) {
	if ov.MaxEntries != nil {
		cfg.MaxEntries = *ov.MaxEntries
	}
	if ov.MaxRequests != nil {
		cfg.MaxRequests = *ov.MaxRequests
	}
	if ov.DebugServerAddr != nil {
		cfg.DebugServerAddr = *ov.DebugServerAddr
	}
	if ov.ZoomMin != nil {
		cfg.ZoomMin = *ov.ZoomMin
	}
	if ov.ZoomMax != nil {
		cfg.ZoomMax = *ov.ZoomMax
	}
}
