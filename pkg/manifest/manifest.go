// Package manifest exports computed orderings as JSON.
//
// A manifest records, for one (source, profile) pair, the subjects each
// section placed and the cycle cuts it made. It is written next to the
// Turtle output when requested and is meant for review tooling: a diff of
// two manifests shows which subjects moved between sections and which
// cuts appeared or disappeared.
//
// # JSON Format
//
//	{
//	  "source": "animals.ttl",
//	  "profile": "logical",
//	  "output": "out/animals-logical.ttl",
//	  "sections": [
//	    {
//	      "name": "classes",
//	      "selector": "class",
//	      "mode": "rooted",
//	      "subjects": ["ex:Animal", "ex:Mammal", "ex:Dog"],
//	      "cuts": [{"node": "ex:A", "pending": ["ex:B"]}]
//	    }
//	  ]
//	}
//
// Subjects are written in short form where the prefix table allows it.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Manifest describes the ordering of one profile over one source.
type Manifest struct {
	Source   string    `json:"source"`
	Profile  string    `json:"profile"`
	Output   string    `json:"output,omitempty"`
	Sections []Section `json:"sections"`
}

// Section is one ordered section.
type Section struct {
	Name     string   `json:"name"`
	Selector string   `json:"selector"`
	Mode     string   `json:"mode"`
	Subjects []string `json:"subjects"`
	Cuts     []Cut    `json:"cuts,omitempty"`
}

// Cut is a node emitted before the listed dependencies.
type Cut struct {
	Node    string   `json:"node"`
	Pending []string `json:"pending"`
}

// Order returns every subject of the manifest in emission order.
func (m *Manifest) Order() []string {
	var out []string
	for _, s := range m.Sections {
		out = append(out, s.Subjects...)
	}
	return out
}

// CutCount returns the number of cuts across all sections.
func (m *Manifest) CutCount() int {
	n := 0
	for _, s := range m.Sections {
		n += len(s.Cuts)
	}
	return n
}

// Marshal encodes m as indented JSON terminated by a newline.
func Marshal(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(normalize(m), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON encodes m as JSON and writes it to w.
func WriteJSON(m *Manifest, w io.Writer) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadJSON decodes a manifest from r.
func ReadJSON(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &m, nil
}

// ImportJSON reads a manifest from the file at path.
func ImportJSON(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// normalize replaces nil subject lists with empty ones so empty sections
// encode as [] rather than null.
func normalize(m *Manifest) *Manifest {
	out := *m
	if out.Sections == nil {
		out.Sections = []Section{}
	}
	out.Sections = append([]Section(nil), out.Sections...)
	for i := range out.Sections {
		if out.Sections[i].Subjects == nil {
			out.Sections[i].Subjects = []string{}
		}
	}
	return &out
}
