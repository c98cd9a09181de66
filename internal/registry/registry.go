// Package registry holds embedded reference data shared by the fusion and
// prospect packages: country names, host blocklists, the industry keyword
// taxonomy, role filters, and sales-navigator geography URNs.
package registry

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// TypeRule refines an industry segment into a type.
type TypeRule struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
}

// IndustryRule classifies text into an industry segment. Rules are ordered
// and the first keyword hit wins.
type IndustryRule struct {
	Segment  string     `yaml:"segment"`
	Keywords []string   `yaml:"keywords"`
	Types    []TypeRule `yaml:"types"`
}

// SchemaTypeRule maps a schema.org type keyword to an industry type.
type SchemaTypeRule struct {
	Keyword string `yaml:"keyword"`
	Type    string `yaml:"type"`
}

// Registry is the loaded reference data. Treat it as immutable.
type Registry struct {
	Countries    map[string]string `yaml:"countries"`
	BadHosts     []string          `yaml:"bad_hosts"`
	Industries   []IndustryRule    `yaml:"industries"`
	SchemaTypes  []SchemaTypeRule  `yaml:"schema_types"`
	RoleFilters  []string          `yaml:"role_filters"`
	SalesNavGeos map[string]string `yaml:"salesnav_geos"`
}

// Load parses the embedded defaults.
func Load() (*Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(defaultsYAML, &r); err != nil {
		return nil, eris.Wrap(err, "registry: parse defaults")
	}
	return &r, nil
}

// MustLoad panics on a broken embedded file. Only for use at startup.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(err)
	}
	return r
}
