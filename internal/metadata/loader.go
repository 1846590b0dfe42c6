package metadata

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// schemaFile is the on-disk shape of a schema override document.
type schemaFile struct {
	Schemas []*Schema `yaml:"schemas"`
}

// LoadFile reads a YAML schema document and returns the schemas it declares.
// Unknown kinds are rejected; kinds the file omits keep their built-in
// defaults, so a file may override a single kind.
func LoadFile(path string) ([]*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	var doc schemaFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}

	byKind := make(map[Kind]*Schema)
	for _, s := range Defaults() {
		byKind[s.Kind] = s
	}
	for _, s := range doc.Schemas {
		if !s.Kind.Valid() {
			return nil, fmt.Errorf("schema file: unknown kind %q", s.Kind)
		}
		if s.IDField == "" {
			return nil, fmt.Errorf("schema file: kind %q is missing id_field", s.Kind)
		}
		byKind[s.Kind] = s
	}

	schemas := make([]*Schema, 0, len(byKind))
	for _, k := range Kinds() {
		schemas = append(schemas, byKind[k])
	}

	log.Printf("Loaded %d schemas from %s", len(doc.Schemas), path)
	return schemas, nil
}
