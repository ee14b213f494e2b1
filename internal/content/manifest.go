package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlManifestFile is the top-level YAML structure for the book manifest.
type yamlManifestFile struct {
	Book yamlBook `yaml:"book"`
}

// yamlBook is the YAML representation of the book manifest.
type yamlBook struct {
	Title     string `yaml:"title"`
	StartPage string `yaml:"start_page"`
	Items     string `yaml:"items"`
	StatsMeta string `yaml:"stats_meta"`
	Menu      string `yaml:"menu"`
}

// Manifest describes one gamebook: its title, the page a fresh session opens
// on, and the content file names relative to the content directory.
type Manifest struct {
	Title     string
	StartPage string
	Items     string
	StatsMeta string
	Menu      string
}

// DefaultManifest returns the manifest used when no book.yaml is present.
func DefaultManifest() Manifest {
	return Manifest{
		Title:     "Herobook",
		StartPage: "-001",
		Items:     "Items.json",
		StatsMeta: "Stats.json",
		Menu:      "Menu.json",
	}
}

// LoadManifestFromFile reads and validates the book manifest.
//
// Precondition: path must point to a valid YAML manifest file.
// Postcondition: Returns a Manifest with defaults filled in for omitted
// fields, or a non-nil error.
func LoadManifestFromFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return LoadManifestFromBytes(data)
}

// LoadManifestFromBytes parses a manifest from YAML bytes.
//
// Postcondition: Returns a Manifest with defaults filled in for omitted
// fields, or a non-nil error.
func LoadManifestFromBytes(data []byte) (Manifest, error) {
	var file yamlManifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest YAML: %w", err)
	}

	m := DefaultManifest()
	if file.Book.Title != "" {
		m.Title = file.Book.Title
	}
	if file.Book.StartPage != "" {
		m.StartPage = file.Book.StartPage
	}
	if file.Book.Items != "" {
		m.Items = file.Book.Items
	}
	if file.Book.StatsMeta != "" {
		m.StatsMeta = file.Book.StatsMeta
	}
	if file.Book.Menu != "" {
		m.Menu = file.Book.Menu
	}
	return m, nil
}
