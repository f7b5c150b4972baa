package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/ttlorder/pkg/curie"
	errs "github.com/matzehuels/ttlorder/pkg/errors"
	"github.com/matzehuels/ttlorder/pkg/ordering"
	"github.com/matzehuels/ttlorder/pkg/rdf"
	"github.com/matzehuels/ttlorder/pkg/selector"
	"github.com/matzehuels/ttlorder/pkg/serialize"
)

// DefaultSort is the sort mode of a section that names none.
const DefaultSort = "qname_alpha"

// Config is a complete ordering configuration.
type Config struct {
	Defaults       Defaults             `yaml:"defaults" toml:"defaults"`
	Selectors      map[string]string    `yaml:"selectors" toml:"selectors"`
	PrefixOrder    []string             `yaml:"prefix_order" toml:"prefix_order"`
	PredicateOrder PredicateOrderConfig `yaml:"predicate_order" toml:"predicate_order"`
	Profiles       Profiles             `yaml:"profiles" toml:"-"`
}

// Defaults apply to every profile.
type Defaults struct {
	// PreservePrefixOrder declares prefixes in PrefixOrder first. Nil
	// means true.
	PreservePrefixOrder *bool `yaml:"preserve_prefix_order" toml:"preserve_prefix_order"`
	// Relation overrides the hierarchy predicate of every section that does
	// not name its own.
	Relation string `yaml:"relation" toml:"relation"`
}

// PredicateOrderConfig holds the predicate rules per subject kind.
type PredicateOrderConfig struct {
	Classes     PredicateRule `yaml:"classes" toml:"classes"`
	Properties  PredicateRule `yaml:"properties" toml:"properties"`
	Individuals PredicateRule `yaml:"individuals" toml:"individuals"`
	Default     PredicateRule `yaml:"default" toml:"default"`
}

// PredicateRule lists predicates (CURIEs or IRIs) pinned to the start or
// end of a subject block.
type PredicateRule struct {
	First []string `yaml:"first" toml:"first"`
	Last  []string `yaml:"last" toml:"last"`
}

// Profiles is an ordered list of profiles.
type Profiles []Profile

// Profile is a named ordered list of sections.
type Profile struct {
	Name        string    `yaml:"-" toml:"name"`
	Description string    `yaml:"description" toml:"description"`
	Sections    []Section `yaml:"-" toml:"sections"`
}

// Section selects and orders one group of subjects.
type Section struct {
	Name     string   `yaml:"-" toml:"name"`
	Select   string   `yaml:"select" toml:"select"`
	Sort     string   `yaml:"sort" toml:"sort"`
	Roots    []string `yaml:"roots" toml:"roots"`
	Relation string   `yaml:"relation" toml:"relation"`
	Exclude  []string `yaml:"exclude" toml:"exclude"`
}

// Category returns the selector the section uses: Select, or the section
// name when Select is empty.
func (s Section) Category() string {
	if s.Select != "" {
		return s.Select
	}
	return s.Name
}

// Mode returns the section's sort mode.
func (s Section) Mode() (ordering.Mode, error) {
	sort := s.Sort
	if sort == "" {
		sort = DefaultSort
	}
	return ordering.ParseMode(sort)
}

// IsHeader reports whether the section selects the ontology header.
func (s Section) IsHeader() bool {
	c, ok := selector.ParseCategory(s.Category())
	return ok && c == selector.Ontology
}

// OrderingSpec resolves the section's ordering against table. The relation
// is, in order of preference: the section's own, the configured default,
// rdfs:subPropertyOf for property sections, rdfs:subClassOf otherwise.
func (c *Config) OrderingSpec(s Section, table curie.Table) (ordering.Spec, error) {
	mode, err := s.Mode()
	if err != nil {
		return ordering.Spec{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "section %q", s.Name)
	}
	spec := ordering.Spec{Mode: mode, Roots: s.Roots, Relation: rdf.SubClassOf}

	ref := s.Relation
	if ref == "" {
		ref = c.Defaults.Relation
	}
	switch {
	case ref != "":
		iri, err := table.Resolve(ref)
		if err != nil {
			return ordering.Spec{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "section %q: relation", s.Name)
		}
		spec.Relation = rdf.IRI(iri)
	case c.isPropertySection(s):
		spec.Relation = rdf.SubPropertyOf
	}
	return spec, nil
}

func (c *Config) isPropertySection(s Section) bool {
	if _, named := c.Selectors[s.Category()]; named {
		return false
	}
	cat, ok := selector.ParseCategory(s.Category())
	return ok && cat.IsProperty()
}

// SelectorSpec returns the selection the section performs.
func (c *Config) SelectorSpec(s Section) selector.Spec {
	return selector.Spec{Category: s.Category(), Exclude: s.Exclude, Patterns: c.Selectors}
}

// Rules resolves the predicate rules against table. Entries that do not
// resolve, such as a CURIE with an unbound prefix, fail with
// ErrCodeInvalidConfig naming every such entry.
func (c *Config) Rules(table curie.Table) (serialize.Rules, error) {
	var bad []string
	conv := func(kind string, r PredicateRule) serialize.PredicateOrder {
		return serialize.PredicateOrder{
			First: resolveAll(kind+".first", r.First, table, &bad),
			Last:  resolveAll(kind+".last", r.Last, table, &bad),
		}
	}
	rules := serialize.Rules{
		Classes:     conv("classes", c.PredicateOrder.Classes),
		Properties:  conv("properties", c.PredicateOrder.Properties),
		Individuals: conv("individuals", c.PredicateOrder.Individuals),
		Default:     conv("default", c.PredicateOrder.Default),
	}
	if len(bad) > 0 {
		return rules, errs.New(errs.ErrCodeInvalidConfig, "predicate_order: cannot resolve %s", strings.Join(bad, ", "))
	}
	return rules, nil
}

func resolveAll(key string, refs []string, table curie.Table, bad *[]string) []rdf.Term {
	var out []rdf.Term
	for _, ref := range refs {
		iri, err := table.Resolve(ref)
		if err != nil {
			*bad = append(*bad, fmt.Sprintf("%s %q", key, ref))
			continue
		}
		out = append(out, rdf.IRI(iri))
	}
	return out
}

// PrefixOrderFor returns the prefix order the serializer should honor.
func (c *Config) PrefixOrderFor() []string {
	if c.Defaults.PreservePrefixOrder != nil && !*c.Defaults.PreservePrefixOrder {
		return nil
	}
	return c.PrefixOrder
}

// Profile returns the profile called name.
func (c *Config) Profile(name string) (*Profile, error) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, errs.New(errs.ErrCodeProfileNotFound,
		"profile %q not found; available profiles: %s", name, strings.Join(c.Names(), ", "))
}

// Names returns the profile names in configuration order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Profiles))
	for i, p := range c.Profiles {
		names[i] = p.Name
	}
	return names
}

// Validate checks the configuration. Every failure is an
// ErrCodeInvalidConfig error.
func (c *Config) Validate() error {
	if len(c.Profiles) == 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "no profiles defined")
	}
	for _, p := range c.PrefixOrder {
		if err := errs.ValidatePrefixName(p); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "prefix_order")
		}
	}
	seen := make(map[string]bool)
	for _, p := range c.Profiles {
		if err := errs.ValidateProfileName(p.Name); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "profile")
		}
		if seen[p.Name] {
			return errs.New(errs.ErrCodeInvalidConfig, "profile %q defined twice", p.Name)
		}
		seen[p.Name] = true
		for _, s := range p.Sections {
			if s.Name == "" {
				return errs.New(errs.ErrCodeInvalidConfig, "profile %q: section without a name", p.Name)
			}
			if _, err := s.Mode(); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidConfig, err, "profile %q, section %q", p.Name, s.Name)
			}
			if _, named := c.Selectors[s.Category()]; !named {
				if _, ok := selector.ParseCategory(s.Category()); !ok {
					return errs.New(errs.ErrCodeInvalidConfig,
						"profile %q, section %q: unknown selector %q", p.Name, s.Name, s.Category())
				}
			}
		}
	}
	return nil
}

// Format is a configuration syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidConfig, "unsupported config format %q", filepath.Ext(path))
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "read config %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read config %s", path)
	}
	return Parse(data, f)
}

// Parse decodes and validates a configuration.
func Parse(data []byte, f Format) (*Config, error) {
	var (
		c   *Config
		err error
	)
	switch f {
	case FormatYAML:
		c, err = parseYAML(data)
	case FormatTOML:
		c, err = parseTOML(data)
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unsupported config format %q", f)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the configuration used when none is given: one profile
// named "default" that writes the ontology header, classes and properties
// in hierarchy order, then individuals alphabetically.
func Default() *Config {
	return &Config{
		PrefixOrder: []string{"rdf", "rdfs", "owl", "xsd"},
		PredicateOrder: PredicateOrderConfig{
			Classes:    PredicateRule{First: []string{"rdfs:label", "rdfs:comment"}, Last: []string{"rdfs:subClassOf"}},
			Properties: PredicateRule{First: []string{"rdfs:label", "rdfs:comment", "rdfs:domain", "rdfs:range"}},
			Default:    PredicateRule{First: []string{"rdfs:label", "rdfs:comment"}},
		},
		Profiles: Profiles{{
			Name:        "default",
			Description: "Header, hierarchies in topological order, then individuals",
			Sections: []Section{
				{Name: "header"},
				{Name: "classes", Sort: "topological"},
				{Name: "object_properties", Sort: "topological"},
				{Name: "datatype_properties", Sort: "topological"},
				{Name: "annotation_properties", Sort: "topological"},
				{Name: "individuals"},
			},
		}},
	}
}
