package merkle

import (
	"fmt"

	"github.com/yourorg/cswzk/pkg/field"
)

// Path is a Merkle authentication path. Siblings[i] is the sibling at level i
// (leaves are level 0); bit i of Index is set when the node at level i is a
// right child.
type Path struct {
	Siblings []field.Element
	Index    uint64
}

// NewPath returns the placeholder path of the given height: zero siblings,
// index 0. It keeps the witness shape fixed when the path is unused.
func NewPath(height int) Path {
	return Path{Siblings: make([]field.Element, height)}
}

func (p Path) Height() int { return len(p.Siblings) }

// Validate rejects an Index addressing a leaf outside a tree of p's height.
// Such an index would lose its high bits on assignment.
func (p Path) Validate() error {
	if h := p.Height(); h < 64 && p.Index>>uint(h) != 0 {
		return fmt.Errorf("%w: %d for height %d", ErrLeafIdx, p.Index, h)
	}
	return nil
}

// IsRight reports whether the node at level lvl is a right child.
func (p Path) IsRight(lvl int) bool {
	return (p.Index>>uint(lvl))&1 == 1
}

// Clone returns a deep copy.
func (p Path) Clone() Path {
	return Path{Siblings: append([]field.Element(nil), p.Siblings...), Index: p.Index}
}

// Root recomputes the root reached from leaf along p.
func (p Path) Root(leaf field.Element) (field.Element, error) {
	if err := p.Validate(); err != nil {
		return field.Element{}, err
	}
	cur := leaf
	var err error
	for lvl, sib := range p.Siblings {
		if p.IsRight(lvl) {
			cur, err = hashNode(sib, cur)
		} else {
			cur, err = hashNode(cur, sib)
		}
		if err != nil {
			return field.Element{}, err
		}
	}
	return cur, nil
}
