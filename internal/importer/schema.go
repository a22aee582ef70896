package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level YAML structure for a studio seed file.
type ImportSchema struct {
	Projects []ProjectImport `yaml:"projects"`
}

// ProjectImport defines one project and everything attached to it.
type ProjectImport struct {
	ShortID string         `yaml:"short_id"`
	Name    string         `yaml:"name"`
	Client  string         `yaml:"client,omitempty"`
	Stage   string         `yaml:"stage,omitempty"`
	Tasks   []TaskImport   `yaml:"tasks,omitempty"`
	Returns []ReturnImport `yaml:"returns,omitempty"`
}

type TaskImport struct {
	Title    string  `yaml:"title"`
	Category string  `yaml:"category"`
	Status   string  `yaml:"status,omitempty"`
	Priority string  `yaml:"priority,omitempty"`
	Notes    string  `yaml:"notes,omitempty"`
	DueDate  *string `yaml:"due_date,omitempty"`
}

// ReturnImport is a vendor return. Amount is in currency units, e.g. 129.99.
type ReturnImport struct {
	Item    string  `yaml:"item"`
	Vendor  string  `yaml:"vendor,omitempty"`
	DueDate string  `yaml:"due_date"`
	Amount  float64 `yaml:"amount,omitempty"`
	Status  string  `yaml:"status,omitempty"`
}

// LoadFile reads and parses a YAML seed file.
func LoadFile(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML seed document. Unknown keys are rejected so typos do
// not silently drop data.
func Parse(data []byte) (*ImportSchema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var schema ImportSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
