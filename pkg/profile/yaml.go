package profile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func parseYAML(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UnmarshalYAML decodes the profiles mapping in document order.
func (p *Profiles) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: profiles must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var body struct {
			Description string    `yaml:"description"`
			Sections    yaml.Node `yaml:"sections"`
		}
		if err := resolve(node.Content[i+1]).Decode(&body); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
		sections, err := decodeSections(&body.Sections)
		if err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
		*p = append(*p, Profile{Name: name, Description: body.Description, Sections: sections})
	}
	return nil
}

// decodeSections decodes a list of single-key mappings.
func decodeSections(node *yaml.Node) ([]Section, error) {
	node = resolve(node)
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: sections must be a list", node.Line)
	}
	var out []Section
	for _, item := range node.Content {
		item = resolve(item)
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, fmt.Errorf("line %d: each section must be a single-key mapping", item.Line)
		}
		var s Section
		if err := resolve(item.Content[1]).Decode(&s); err != nil {
			return nil, fmt.Errorf("section %q: %w", item.Content[0].Value, err)
		}
		s.Name = item.Content[0].Value
		out = append(out, s)
	}
	return out, nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}
