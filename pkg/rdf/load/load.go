// Package load reads Turtle and N-Triples documents into an [rdf.Store]
// together with the prefix table declared in the document.
//
// Parsing is delegated to [github.com/knakk/rdf]. Its decoder does not
// expose the prefix declarations it consumed, so they are recovered with a
// separate scan of the source text; the resulting [curie.Table] is what the
// serializer uses to write short forms back out.
//
// The Turtle decoder names anonymous nodes ("[ ]" and collection cells) in the
// same namespace as labels written in the document, so written labels are
// moved into a reserved namespace before decoding and restored afterwards.
// Anonymous nodes are given labels that no written label uses.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	knakk "github.com/knakk/rdf"

	"github.com/matzehuels/ttlorder/pkg/curie"
	errs "github.com/matzehuels/ttlorder/pkg/errors"
	"github.com/matzehuels/ttlorder/pkg/rdf"
)

// Format identifies a source syntax.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
)

// FormatFromPath guesses the format from a file extension, defaulting to Turtle.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt", ".ntriples":
		return FormatNTriples
	default:
		return FormatTurtle
	}
}

// Source is a loaded document.
type Source struct {
	Path     string
	Graph    *rdf.Store
	Prefixes curie.Table
}

// Stem returns the file name without directory and extension, used to name
// output files.
func (s *Source) Stem() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// File loads the document at path.
func File(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read %s", path)
	}
	g, table, err := Bytes(data, FormatFromPath(path))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "parse %s", path)
	}
	return &Source{Path: path, Graph: g, Prefixes: table}, nil
}

// Read loads a document from r.
func Read(r io.Reader, f Format) (*rdf.Store, curie.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, curie.Table{}, err
	}
	return Bytes(data, f)
}

// Bytes parses data in the given format.
func Bytes(data []byte, f Format) (*rdf.Store, curie.Table, error) {
	table, err := Prefixes(data)
	if err != nil {
		return nil, curie.Table{}, err
	}

	kf := knakk.Turtle
	var scope *blankScope
	if f == FormatNTriples {
		kf = knakk.NTriples
	} else {
		data, scope = scopeBlankLabels(data)
	}

	store := rdf.NewStore()
	dec := knakk.NewTripleDecoder(bytes.NewReader(data), kf)
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, curie.Table{}, err
		}
		t, err := convertTriple(tr, scope)
		if err != nil {
			return nil, curie.Table{}, err
		}
		store.Add(t)
	}
	return store, table, nil
}

// prefixDecl matches both "@prefix p: <ns> ." and SPARQL-style "PREFIX p: <ns>".
var prefixDecl = regexp.MustCompile(`(?mi)^[ \t]*@?prefix[ \t]+([A-Za-z][\w.\-]*)?:[ \t]*<([^>]*)>`)

// Prefixes scans data for prefix declarations. When a prefix is declared
// twice the last declaration wins, as in a Turtle parser.
func Prefixes(data []byte) (curie.Table, error) {
	bindings := make(map[string]string)
	for _, m := range prefixDecl.FindAllSubmatch(data, -1) {
		bindings[string(m[1])] = string(m[2])
	}
	return curie.NewTable(bindings)
}

func convertTriple(tr knakk.Triple, scope *blankScope) (rdf.Triple, error) {
	s, err := convertTerm(tr.Subj, scope)
	if err != nil {
		return rdf.Triple{}, err
	}
	p, err := convertTerm(tr.Pred, scope)
	if err != nil {
		return rdf.Triple{}, err
	}
	o, err := convertTerm(tr.Obj, scope)
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{S: s, P: p, O: o}, nil
}

func convertTerm(t knakk.Term, scope *blankScope) (rdf.Term, error) {
	switch v := t.(type) {
	case knakk.IRI:
		return rdf.IRI(v.String()), nil
	case knakk.Blank:
		if scope == nil {
			return rdf.Blank(v.String()), nil
		}
		return scope.blank(v.String()), nil
	case knakk.Literal:
		if lang := v.Lang(); lang != "" {
			return rdf.LangLiteral(v.String(), lang), nil
		}
		return rdf.TypedLiteral(v.String(), v.DataType.String()), nil
	}
	return rdf.Term{}, fmt.Errorf("unsupported term %T", t)
}

// writtenMark prefixes written blank labels while the decoder runs. Labels
// the decoder generates itself always start with 'b'.
const writtenMark = 'u'

// blankScope maps decoder blank ids back to store labels.
type blankScope struct {
	written map[string]bool   // labels written in the document
	anon    map[string]string // generated decoder id -> store label
	n       int
}

func (s *blankScope) blank(id string) rdf.Term {
	if len(id) > 0 && id[0] == writtenMark {
		return rdf.Blank(id[1:])
	}
	if l, ok := s.anon[id]; ok {
		return rdf.Blank(l)
	}
	var l string
	for {
		s.n++
		l = fmt.Sprintf("b%d", s.n)
		if !s.written[l] {
			break
		}
	}
	s.anon[id] = l
	return rdf.Blank(l)
}

// scopeBlankLabels rewrites every written "_:label" outside IRIs, strings and
// comments to "_:u<label>", returning the rewritten document.
func scopeBlankLabels(data []byte) ([]byte, *blankScope) {
	scope := &blankScope{written: make(map[string]bool), anon: make(map[string]string)}
	out := make([]byte, 0, len(data)+len(data)/32)
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '#':
			j := bytes.IndexByte(data[i:], '\n')
			if j < 0 {
				j = len(data) - i
			}
			out = append(out, data[i:i+j]...)
			i += j
		case c == '<':
			j := bytes.IndexByte(data[i:], '>')
			if j < 0 {
				j = len(data) - i - 1
			}
			out = append(out, data[i:i+j+1]...)
			i += j + 1
		case c == '"' || c == '\'':
			j := stringEnd(data, i)
			out = append(out, data[i:j]...)
			i = j
		case c == '_' && i+1 < len(data) && data[i+1] == ':' && (i == 0 || !isNameByte(data[i-1])):
			j := i + 2
			for j < len(data) && isNameByte(data[j]) && data[j] != ':' {
				j++
			}
			for j > i+2 && data[j-1] == '.' {
				j--
			}
			out = append(out, '_', ':')
			if j > i+2 {
				scope.written[string(data[i+2:j])] = true
				out = append(out, writtenMark)
				out = append(out, data[i+2:j]...)
			}
			i = j
		default:
			out = append(out, c)
			i++
		}
	}
	return out, scope
}

// stringEnd returns the offset just past the string literal starting at i.
func stringEnd(data []byte, i int) int {
	q := data[i]
	long := i+2 < len(data) && data[i+1] == q && data[i+2] == q
	j := i + 1
	if long {
		j = i + 3
	}
	for j < len(data) {
		switch {
		case data[j] == '\\':
			j += 2
		case long && j+2 < len(data) && data[j] == q && data[j+1] == q && data[j+2] == q:
			// """a"""" ends with the last three quotes of the run.
			for k := 0; k < 2 && j+3 < len(data) && data[j+3] == q; k++ {
				j++
			}
			return j + 3
		case !long && data[j] == q:
			return j + 1
		case !long && data[j] == '\n':
			return j
		default:
			j++
		}
	}
	return len(data)
}

func isNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == '.', c == ':', c >= 0x80:
		return true
	}
	return false
}
