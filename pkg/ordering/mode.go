package ordering

import (
	"strings"

	errs "github.com/matzehuels/ttlorder/pkg/errors"
)

// Mode selects an ordering strategy.
type Mode string

const (
	Alphabetical Mode = "alphabetical"
	Topological  Mode = "topological"
	Rooted       Mode = "rooted"
)

var modeAliases = map[string]Mode{
	"alphabetical": Alphabetical,
	"alpha":        Alphabetical,
	"qname_alpha":  Alphabetical,
	"topological":  Topological,
	"topo":         Topological,
	"rooted":       Rooted,
}

// ParseMode resolves a mode name or alias. An unknown name is an
// ErrCodeInvalidMode error.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", errs.New(errs.ErrCodeInvalidMode, "unknown sort mode %q", s)
}

// Modes returns the canonical mode names.
func Modes() []Mode { return []Mode{Alphabetical, Topological, Rooted} }
