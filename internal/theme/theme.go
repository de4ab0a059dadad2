// Package theme loads terminal color themes from YAML or JSON files and
// writes patched copies back out.
package theme

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/onnwee/themecontrast/internal/audit"
)

var (
	// ErrNoColors is returned when a theme file has an empty colors map.
	ErrNoColors = errors.New("theme has no colors")
	// ErrUnsupportedFormat is returned for files without a theme extension.
	ErrUnsupportedFormat = errors.New("unsupported theme file extension")
)

// Extensions recognized by Load and LoadDir.
var Extensions = []string{".yaml", ".yml", ".json"}

// Theme is a named color map as read from disk.
type Theme struct {
	Name   string            `yaml:"name" json:"name"`
	Source string            `yaml:"-" json:"source,omitempty"`
	Colors map[string]string `yaml:"colors" json:"colors"`
}

// IsThemeFile reports whether path has a recognized extension.
func IsThemeFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads one theme file. JSON is parsed by the YAML parser, which accepts
// it as a subset. The theme name defaults to the file's base name.
func Load(path string) (Theme, error) {
	if !IsThemeFile(path) {
		return Theme{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Theme{}, fmt.Errorf("failed to load theme %s: %w", path, err)
	}

	t := Theme{
		Name:   k.String("name"),
		Source: path,
		Colors: k.StringMap("colors"),
	}
	if t.Name == "" {
		base := filepath.Base(path)
		t.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if len(t.Colors) == 0 {
		return Theme{}, fmt.Errorf("%w: %s", ErrNoColors, path)
	}
	return t, nil
}

// LoadDir loads every theme file directly inside dir, sorted by file name.
func LoadDir(dir string) ([]Theme, error) {
	paths, err := listDir(dir)
	if err != nil {
		return nil, err
	}
	return loadAll(paths)
}

// Discover expands paths into theme files. Directories contribute their
// theme files in name order; files are taken as given.
func Discover(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		files, err := listDir(p)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// LoadAll discovers and loads the themes named by paths.
func LoadAll(paths []string) ([]Theme, error) {
	files, err := Discover(paths)
	if err != nil {
		return nil, err
	}
	return loadAll(files)
}

func loadAll(paths []string) ([]Theme, error) {
	themes := make([]Theme, 0, len(paths))
	for _, p := range paths {
		t, err := Load(p)
		if err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}
	return themes, nil
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsThemeFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Apply returns a copy of t with each fix's suggested color written to the
// fixed check's key. When several fixes target one key the first wins.
func Apply(t Theme, fixes []audit.Fix) Theme {
	out := Theme{
		Name:   t.Name,
		Source: t.Source,
		Colors: make(map[string]string, len(t.Colors)+1),
	}
	for k, v := range t.Colors {
		out.Colors[k] = v
	}

	patched := make(map[string]bool)
	for _, f := range fixes {
		key := f.Check.Key
		if key == "" || patched[key] {
			continue
		}
		out.Colors[key] = f.Suggestion.Suggested.String()
		patched[key] = true
	}
	return out
}

// Write encodes t as YAML. Color keys are emitted in sorted order.
func Write(w io.Writer, t Theme) error {
	enc := yamlv3.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode theme %s: %w", t.Name, err)
	}
	return enc.Close()
}
