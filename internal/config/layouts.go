package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sheetdiff/domain/layout"
	"sheetdiff/internal/errors"
)

// LayoutsFile is the YAML document read from LAYOUTS_FILE:
//
//	layouts:
//	  - sheet: 会計簿
//	    strategy: ledger
//	    start_row: 7
//	    ...
type LayoutsFile struct {
	// ReplaceBuiltins drops the built-in layouts instead of extending them.
	ReplaceBuiltins bool                `yaml:"replace_builtins"`
	Layouts         []layout.Definition `yaml:"layouts"`
}

// LoadLayouts parses a layouts file
func LoadLayouts(path string) (*LayoutsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read layouts file %s", path)
	}

	var file LayoutsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to parse layouts file %s", path)
	}
	for i, d := range file.Layouts {
		if d.Sheet == "" {
			return nil, errors.ConfigInvalid(fmt.Sprintf("%s: layout %d has no sheet", path, i+1))
		}
	}
	return &file, nil
}

// Registry builds the layout registry: the built-ins, then the layouts file
// if one is configured.
func (c *Config) Registry() (*layout.Registry, error) {
	defs := layout.BuiltinDefinitions()
	if c.LayoutsFile != "" {
		file, err := LoadLayouts(c.LayoutsFile)
		if err != nil {
			return nil, err
		}
		if file.ReplaceBuiltins {
			defs = nil
		}
		defs = append(defs, file.Layouts...)
	}

	registry, err := layout.NewRegistry(defs...)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "invalid layout definition")
	}
	return registry, nil
}
