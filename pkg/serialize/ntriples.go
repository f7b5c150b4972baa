package serialize

import (
	"bufio"
	"io"
	"slices"

	"github.com/matzehuels/ttlorder/pkg/curie"
	"github.com/matzehuels/ttlorder/pkg/rdf"
)

// NTriples writes ordered N-Triples. Each subject's statements are followed
// by those of the blank nodes it reaches, depth first.
type NTriples struct {
	Table curie.Table // sort keys for predicates
	Rules Rules
}

// Write implements Writer.
func (n NTriples) Write(w io.Writer, g rdf.Graph, subjects []rdf.Term) error {
	bw := bufio.NewWriter(w)
	done := make(map[rdf.Term]bool)

	var emit func(s rdf.Term)
	emit = func(s rdf.Term) {
		if done[s] {
			return
		}
		done[s] = true

		byPred := make(map[rdf.Term][]rdf.Term)
		var preds []rdf.Term
		for tr := range g.Match(s, rdf.Term{}, rdf.Term{}) {
			if _, ok := byPred[tr.P]; !ok {
				preds = append(preds, tr.P)
			}
			byPred[tr.P] = append(byPred[tr.P], tr.O)
		}
		var blanks []rdf.Term
		for _, p := range n.Rules.For(Classify(g, s)).Sort(preds, n.Table) {
			objs := byPred[p]
			slices.SortFunc(objs, rdf.Compare)
			for _, o := range objs {
				bw.WriteString(rdf.Triple{S: s, P: p, O: o}.String())
				bw.WriteString("\n")
				if o.IsBlank() {
					blanks = append(blanks, o)
				}
			}
		}
		for _, b := range blanks {
			emit(b)
		}
	}

	for _, s := range subjects {
		emit(s)
	}
	return bw.Flush()
}
