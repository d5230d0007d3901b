// Package lang provides completion and hover content for ASS scripts. It
// builds on the cursor classifier and a catalog of override tags, Script Info
// keys, format fields and section headers embedded as YAML.
package lang

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Entry documents one tag, key, section or event type.
type Entry struct {
	Name        string   `yaml:"name"`
	Title       string   `yaml:"title"`
	Detail      string   `yaml:"detail"`
	Syntax      string   `yaml:"syntax"`
	Description string   `yaml:"description"`
	Snippet     string   `yaml:"snippet"`
	Aliases     []string `yaml:"aliases"`
}

// Catalog is the static content behind completion and hover.
type Catalog struct {
	Tags        []Entry  `yaml:"tags"`
	InfoKeys    []Entry  `yaml:"info_keys"`
	StyleFields []string `yaml:"style_fields"`
	EventFields []string `yaml:"event_fields"`
	Sections    []Entry  `yaml:"sections"`
	EventTypes  []Entry  `yaml:"event_types"`
}

// LoadCatalog decodes a catalog document.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(c.Tags) == 0 {
		return nil, fmt.Errorf("decoding catalog: no tags")
	}
	return &c, nil
}

var builtin = sync.OnceValue(func() *Catalog {
	c, err := LoadCatalog(catalogYAML)
	if err != nil {
		panic(err)
	}
	return c
})

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	return builtin()
}

// Tag finds an override tag by name, without the backslash.
func (c *Catalog) Tag(name string) (Entry, bool) {
	return find(c.Tags, name)
}

// InfoKey finds a Script Info key.
func (c *Catalog) InfoKey(name string) (Entry, bool) {
	return find(c.InfoKeys, name)
}

// Section finds a section by name or alias, without brackets.
func (c *Catalog) Section(name string) (Entry, bool) {
	return find(c.Sections, name)
}

// EventType finds "Dialogue" or "Comment".
func (c *Catalog) EventType(name string) (Entry, bool) {
	return find(c.EventTypes, name)
}

func find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
		for _, a := range e.Aliases {
			if a == name {
				return e, true
			}
		}
	}
	return Entry{}, false
}
