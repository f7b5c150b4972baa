package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func sample() *Manifest {
	return &Manifest{
		Source:  "animals.ttl",
		Profile: "logical",
		Sections: []Section{
			{Name: "header", Selector: "ontology", Mode: "qname_alpha"},
			{
				Name: "classes", Selector: "class", Mode: "rooted",
				Subjects: []string{"ex:A", "ex:C", "ex:B"},
				Cuts:     []Cut{{Node: "ex:A", Pending: []string{"ex:B"}}},
			},
		},
	}
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	if !strings.HasSuffix(s, "}\n") {
		t.Error("Marshal() output should end with a newline")
	}
	if !strings.Contains(s, `"subjects": []`) {
		t.Errorf("empty section should encode subjects as [], got:\n%s", s)
	}
	if strings.Contains(s, `"output"`) {
		t.Error("empty output should be omitted")
	}
	if strings.Index(s, `"header"`) > strings.Index(s, `"classes"`) {
		t.Error("sections out of order")
	}
}

func TestMarshalDoesNotModifyInput(t *testing.T) {
	m := sample()
	if _, err := Marshal(m); err != nil {
		t.Fatal(err)
	}
	if m.Sections[0].Subjects != nil {
		t.Error("Marshal() modified its argument")
	}
}

func TestReadJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(), &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	m, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if want := []string{"ex:A", "ex:C", "ex:B"}; !slices.Equal(m.Order(), want) {
		t.Errorf("Order() = %v, want %v", m.Order(), want)
	}
	if m.CutCount() != 1 {
		t.Errorf("CutCount() = %d, want 1", m.CutCount())
	}
}

func TestReadJSONInvalid(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("ReadJSON() should fail on truncated input")
	}
}

func TestImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	data, _ := Marshal(sample())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if m.Profile != "logical" {
		t.Errorf("Profile = %q, want %q", m.Profile, "logical")
	}
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON() of a missing file should fail")
	}
}
