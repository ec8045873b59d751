package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFile is the optional override file looked up in the repository root.
const ConfigFile = ".revcheck.toml"

// Overrides replaces built-in pipeline commands and defines extra named
// pipelines. Zero value means built-ins only.
type Overrides struct {
	Fmt    string `toml:"fmt,omitempty"`
	Clippy string `toml:"clippy,omitempty"`
	Build  string `toml:"build,omitempty"`
	Test   string `toml:"test,omitempty"`

	// Extra maps additional pipeline names to their command lists.
	Extra map[string][]string `toml:"pipelines,omitempty"`
}

func (o Overrides) forName(name Name) string {
	switch name {
	case Fmt:
		return o.Fmt
	case Clippy:
		return o.Clippy
	case Build:
		return o.Build
	case Test:
		return o.Test
	default:
		return ""
	}
}

// LoadOverrides reads ConfigFile from dir. A missing file yields the zero
// Overrides; a malformed file is an error.
func LoadOverrides(dir string) (Overrides, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Overrides{}, nil
		}
		return Overrides{}, fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	var ov Overrides
	if err := toml.Unmarshal(data, &ov); err != nil {
		return Overrides{}, fmt.Errorf("parse %s: %w", ConfigFile, err)
	}
	return ov, nil
}
