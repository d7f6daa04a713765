package project

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"pyrite/internal/fnbuild"
	"pyrite/internal/rtlayout"
	"pyrite/internal/trace"
)

// ManifestName is the file name looked up in the working directory.
const ManifestName = "pyrite.toml"

// BuildSection is the [build] section of pyrite.toml.
type BuildSection struct {
	// Mode selects the debug/release object layout and refcount
	// sequences. Default: release.
	Mode string `toml:"mode"`
	// Target is the ABI triple. Default: x86_64-linux-gnu.
	Target string `toml:"target"`
}

// TraceSection is the [trace] section of pyrite.toml.
type TraceSection struct {
	Level string `toml:"level"`
}

// Manifest is the parsed pyrite.toml.
type Manifest struct {
	Build BuildSection `toml:"build"`
	Trace TraceSection `toml:"trace"`
}

// Config is the resolved, validated manifest.
type Config struct {
	Mode       fnbuild.Mode
	Target     rtlayout.Target
	TraceLevel trace.Level
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Mode:       fnbuild.ModeRelease,
		Target:     rtlayout.X86_64LinuxGNU(),
		TraceLevel: trace.LevelOff,
	}
}

// Load parses and validates path. A missing file yields the default
// configuration without error.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return resolve(path, &m)
}

func resolve(path string, m *Manifest) (Config, error) {
	cfg := Default()
	if m.Build.Mode != "" {
		mode, err := fnbuild.ParseMode(m.Build.Mode)
		if err != nil {
			return cfg, fmt.Errorf("%s: [build].mode: %w", path, err)
		}
		cfg.Mode = mode
	}
	if m.Build.Target != "" {
		if m.Build.Target != rtlayout.X86_64LinuxGNU().Triple {
			return cfg, fmt.Errorf("%s: [build].target: unsupported triple %q", path, m.Build.Target)
		}
	}
	if m.Trace.Level != "" {
		level, err := trace.ParseLevel(m.Trace.Level)
		if err != nil {
			return cfg, fmt.Errorf("%s: [trace].level: %w", path, err)
		}
		cfg.TraceLevel = level
	}
	return cfg, nil
}
