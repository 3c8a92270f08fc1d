package refine

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
)

// Strategy stabilizes the coloring of a graph in place.
type Strategy interface {
	// Refine splits color classes of g until the coloring is stable.
	Refine(g *graph.Graph)
	// Kind identifies the strategy.
	Kind() Kind
}

// Kind names a refinement strategy.
type Kind int

const (
	// KindNaive selects [Naive].
	KindNaive Kind = iota + 1
	// KindFast selects [Fast].
	KindFast
)

// DefaultKind is the strategy used when none is configured.
const DefaultKind = KindFast

// String returns the lower-case name used in flags and config files.
func (k Kind) String() string {
	switch k {
	case KindNaive:
		return "naive"
	case KindFast:
		return "fast"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind maps "naive"/"1" and "fast"/"2" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "naive", "1":
		return KindNaive, nil
	case "fast", "2", "":
		return KindFast, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidConfig, "unknown refinement strategy %q (want naive or fast)", s)
}

// New returns the strategy for k, falling back to [DefaultKind] for the
// zero value.
func New(k Kind) (Strategy, error) {
	switch k {
	case KindNaive:
		return Naive{}, nil
	case KindFast, 0:
		return Fast{}, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown refinement strategy %d", int(k))
}

// Parse is ParseKind followed by New.
func Parse(s string) (Strategy, error) {
	k, err := ParseKind(s)
	if err != nil {
		return nil, err
	}
	return New(k)
}

// IsStable reports whether the coloring of g is stable.
func IsStable(g *graph.Graph) bool {
	p := g.Partition()
	for _, c := range p.ClassIDs() {
		cls := p.Class(c)
		if len(cls) < 2 {
			continue
		}
		ref := signature(g, cls[0], nil)
		var buf []int
		for _, v := range cls[1:] {
			buf = signature(g, v, buf[:0])
			if !equalInts(ref, buf) {
				return false
			}
		}
	}
	return true
}
