package menu

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlCatalog is the structure of a menu override file.
type yamlCatalog struct {
	Nodes []Node `yaml:"nodes"`
}

// LoadFile builds a catalog from a YAML file. The file replaces the
// built-in definition wholesale; it is validated the same way.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading menu file: %w", err)
	}

	var doc yamlCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing menu YAML: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("menu file %s defines no nodes", path)
	}

	return NewCatalog(doc.Nodes)
}
