// Package triggers stores the user's trigger list on disk and keeps live
// consumers up to date when it changes.
package triggers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/wordexpand/internal/utils"
	"github.com/bastiangx/wordexpand/pkg/expand"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidTrigger is returned for a trigger with an empty key or expansion.
	ErrInvalidTrigger = errors.New("trigger needs a key and an expansion")
	// ErrNotFound is returned for positions outside the list.
	ErrNotFound = errors.New("trigger not found")
	// ErrUnsupportedFormat is returned for file extensions we can't read or write.
	ErrUnsupportedFormat = errors.New("unsupported trigger file format")
)

// Format is the on-disk encoding of a trigger file.
type Format int

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatYAML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// file is the document layout shared by all formats:
//
//	[[trigger]]
//	key = ";em"
//	expansion = "example@email.com"
type file struct {
	Triggers []expand.Trigger `toml:"trigger" yaml:"triggers" json:"triggers"`
}

// DefaultTriggers is written to a new trigger file.
func DefaultTriggers() []expand.Trigger {
	return []expand.Trigger{
		{Key: ";em", Expansion: "example@email.com"},
		{Key: "ty", Expansion: "Thank you"},
		{Key: "brb", Expansion: "Be right back"},
		{Key: "omw", Expansion: "On my way"},
	}
}

// Validate rejects triggers the engine shouldn't be given.
func Validate(t expand.Trigger) error {
	if t.Key == "" || t.Expansion == "" {
		return fmt.Errorf("%w: key=%q", ErrInvalidTrigger, t.Key)
	}
	return nil
}

// Clean drops invalid entries and keeps the order of the rest.
func Clean(list []expand.Trigger) []expand.Trigger {
	out := make([]expand.Trigger, 0, len(list))
	for i, t := range list {
		if err := Validate(t); err != nil {
			log.Debugf("Dropping trigger #%d: %v", i, err)
			continue
		}
		out = append(out, t)
	}
	return out
}

// Load reads and cleans the trigger file at path.
func Load(path string) ([]expand.Trigger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trigger file %s: %w", path, err)
	}
	list, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse trigger file %s: %w", path, err)
	}
	return list, nil
}

// Decode parses a trigger document.
func Decode(data []byte, format Format) ([]expand.Trigger, error) {
	var f file
	var err error

	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), &f)
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case FormatJSON:
		err = json.Unmarshal(data, &f)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return Clean(f.Triggers), nil
}

// Encode renders a trigger document. Invalid entries are left out.
func Encode(list []expand.Trigger, format Format) ([]byte, error) {
	f := file{Triggers: Clean(list)}
	var buf bytes.Buffer

	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return nil, err
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnsupportedFormat
	}
	return buf.Bytes(), nil
}

// Save writes list to path, replacing the file in one rename.
func Save(path string, list []expand.Trigger) error {
	data, err := Encode(list, FormatOf(path))
	if err != nil {
		return fmt.Errorf("failed to encode triggers for %s: %w", path, err)
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return utils.WriteFileAtomic(path, data, 0o644)
}
